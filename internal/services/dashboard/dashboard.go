// Package dashboard builds the data payload for the dashboard endpoint.
//
// The financial figures are mock data generated server-side; the payload
// is cached per user in Redis for a short TTL and invalidated when the
// profile changes (the user block embeds profile-derived fields).
package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/lib/sl"
	"github.com/sam1217s/modulo-autenticacion-equipo3/internal/models"
)

// CacheTTL bounds how long a generated payload is served from Redis.
const CacheTTL = time.Minute

// Cache is the payload cache contract, implemented by the Redis wrapper.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// UserBlock identifies the dashboard owner.
type UserBlock struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

// Earnings is the mock earnings widget.
type Earnings struct {
	Amount int    `json:"amount"`
	Change string `json:"change"`
	Trend  string `json:"trend"`
}

// Rank is the mock ranking widget.
type Rank struct {
	Position    int    `json:"position"`
	Description string `json:"description"`
}

// Projects is the mock projects summary widget.
type Projects struct {
	Total     int    `json:"total"`
	Pending   string `json:"pending"`
	Completed string `json:"completed"`
}

// Invoice is a row of the recent invoices widget.
type Invoice struct {
	Client  string  `json:"client"`
	Company string  `json:"company"`
	Amount  float64 `json:"amount"`
	Status  string  `json:"status"`
	Avatar  string  `json:"avatar"`
}

// Project is a row of the active projects widget.
type Project struct {
	Title         string `json:"title"`
	DaysRemaining int    `json:"daysRemaining"`
	Avatar        string `json:"avatar"`
}

// Recommended is the recommended project widget.
type Recommended struct {
	Client      string  `json:"client"`
	Company     string  `json:"company"`
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Budget      float64 `json:"budget"`
	Status      string  `json:"status"`
	Avatar      string  `json:"avatar"`
}

// Data is the full dashboard payload.
type Data struct {
	User               UserBlock   `json:"user"`
	Earnings           Earnings    `json:"earnings"`
	Rank               Rank        `json:"rank"`
	Projects           Projects    `json:"projects"`
	RecentInvoices     []Invoice   `json:"recentInvoices"`
	YourProjects       []Project   `json:"yourProjects"`
	RecommendedProject Recommended `json:"recommendedProject"`
}

// Service builds and caches dashboard payloads.
type Service struct {
	cache Cache
	log   *slog.Logger
}

// NewService creates a dashboard Service.
func NewService(cache Cache, log *slog.Logger) *Service {
	return &Service{
		cache: cache,
		log:   log,
	}
}

// Build returns the dashboard payload for a user, serving a cached copy
// when one is fresh. Cache faults are logged and bypassed: the dashboard
// must keep working when Redis is down.
func (s *Service) Build(ctx context.Context, user *models.User) *Data {
	const op = "services.dashboard.Build"

	key := cacheKey(user.UID)
	var cached Data
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Error("dashboard cache read failed", sl.Err(err))
	}
	if found {
		return &cached
	}

	data := s.generate(user)

	if err := s.cache.Set(ctx, key, data, CacheTTL); err != nil {
		s.log.Error("dashboard cache write failed", sl.Err(err))
	}
	return data
}

// Invalidate drops the cached payload for a user, called after profile
// updates.
func (s *Service) Invalidate(ctx context.Context, userUID string) {
	if err := s.cache.Invalidate(ctx, cacheKey(userUID)); err != nil {
		s.log.Error("dashboard cache invalidation failed", sl.Err(err))
	}
}

func cacheKey(userUID string) string {
	return fmt.Sprintf("dashboard:%s", userUID)
}

func (s *Service) generate(user *models.User) *Data {
	return &Data{
		User: UserBlock{
			ID:     user.UID,
			Name:   user.Username,
			Avatar: user.Profile.Avatar,
		},
		Earnings: Earnings{
			Amount: rand.Intn(10000) + 5000,
			Change: "+10% desde el mes pasado",
			Trend:  "up",
		},
		Rank: Rank{
			Position:    rand.Intn(100) + 1,
			Description: "en top 100",
		},
		Projects: Projects{
			Total:     rand.Intn(50) + 10,
			Pending:   "mobile app",
			Completed: "branding",
		},
		RecentInvoices: []Invoice{
			{
				Client:  "Alexander Williams",
				Company: "AX creations",
				Amount:  1200.87,
				Status:  "Paid",
				Avatar:  "https://ui-avatars.com/api/?name=Alexander+Williams&background=10b981&color=fff",
			},
			{
				Client:  "John Phillips",
				Company: "design studio",
				Amount:  12989.88,
				Status:  "Late",
				Avatar:  "https://ui-avatars.com/api/?name=John+Phillips&background=ef4444&color=fff",
			},
		},
		YourProjects: []Project{
			{
				Title:         "Logo design for Bakery",
				DaysRemaining: 3,
				Avatar:        "https://ui-avatars.com/api/?name=Bakery&background=f59e0b&color=fff",
			},
			{
				Title:         "Personal branding project",
				DaysRemaining: 5,
				Avatar:        "https://ui-avatars.com/api/?name=Branding&background=8b5cf6&color=fff",
			},
		},
		RecommendedProject: Recommended{
			Client:      "Thomas Martin",
			Company:     "Upside Designs",
			Title:       "Need a designer to form branding essentials for my business.",
			Description: "Looking for a talented brand designer to create all the branding materials for my new bakery.",
			Budget:      8700,
			Status:      "Design",
			Avatar:      "https://ui-avatars.com/api/?name=Thomas+Martin&background=6366f1&color=fff",
		},
	}
}
