package mojang

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"qbank/models"
	"qbank/service"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

var playerNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]{1,16}$`)

// Config configures the Mojang API client
type Config struct {
	APIURL            string
	SessionURL        string
	RequestsPerSecond float64
	Timeout           time.Duration
}

// Client resolves Minecraft player names and UUIDs through the Mojang API.
// Requests are rate limited client-side.
type Client struct {
	apiURL     string
	sessionURL string
	client     *http.Client
	limiter    *rate.Limiter
}

// profile is the body returned by both profile endpoints
type profile struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewClient creates a new Mojang API client
func NewClient(cfg Config) *Client {
	burst := int(cfg.RequestsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &Client{
		apiURL:     strings.TrimRight(cfg.APIURL, "/"),
		sessionURL: strings.TrimRight(cfg.SessionURL, "/"),
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst),
	}
}

// ResolveName returns the player currently using name, with its canonical capitalization
func (c *Client) ResolveName(ctx context.Context, name string) (*models.Player, error) {
	name = strings.TrimSpace(name)
	if !playerNamePattern.MatchString(name) {
		return nil, fmt.Errorf("%w: %q is not a valid Minecraft name", service.ErrInvalidPlayer, name)
	}

	endpoint := c.apiURL + "/users/profiles/minecraft/" + url.PathEscape(name)
	player, err := c.fetchProfile(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve player %q: %w", name, err)
	}
	return player, nil
}

// LookupUUID returns the current profile of the player with the given UUID
func (c *Client) LookupUUID(ctx context.Context, playerUUID uuid.UUID) (*models.Player, error) {
	endpoint := c.sessionURL + "/session/minecraft/profile/" + strings.ReplaceAll(playerUUID.String(), "-", "")
	player, err := c.fetchProfile(ctx, endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to look up player %s: %w", playerUUID, err)
	}
	return player, nil
}

func (c *Client) fetchProfile(ctx context.Context, endpoint string) (*models.Player, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	log.WithFields(log.Fields{
		"endpoint": endpoint,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("Mojang API request")

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNoContent, http.StatusNotFound, http.StatusBadRequest:
		return nil, service.ErrInvalidPlayer
	default:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var p profile
	if err := json.NewDecoder(resp.Body).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}

	id, err := uuid.Parse(p.ID)
	if err != nil {
		return nil, fmt.Errorf("profile has invalid id %q: %w", p.ID, err)
	}

	return &models.Player{UUID: id, Name: p.Name}, nil
}
