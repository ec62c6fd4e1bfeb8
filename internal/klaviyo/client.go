package klaviyo

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/AngelCh415/growthmap-dashboard/internal/models"
	"github.com/AngelCh415/growthmap-dashboard/internal/upstream"
)

const (
	platform = "klaviyo"

	DefaultRevision     = "2024-10-15"
	DefaultProfileLimit = 100
	metricsProfileLimit = 1000
	maxPageSize         = 100
)

type Config struct {
	APIKey   string
	ListID   string
	BaseURL  string
	Revision string
}

type Client struct {
	c   upstream.HTTPClient
	cfg Config
	log *zap.Logger
	now func() time.Time
}

func NewClient(c upstream.HTTPClient, cfg Config, log *zap.Logger) *Client {
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Revision == "" {
		cfg.Revision = DefaultRevision
	}
	return &Client{c: c, cfg: cfg, log: log, now: time.Now}
}

func (cl *Client) headers() http.Header {
	return http.Header{
		"Authorization": {"Klaviyo-API-Key " + cl.cfg.APIKey},
		"Accept":        {"application/json"},
		"Content-Type":  {"application/json"},
		"Revision":      {cl.cfg.Revision},
	}
}

type profileResource struct {
	ID         string `json:"id"`
	Type       string `json:"type"`
	Attributes struct {
		Email      string         `json:"email"`
		FirstName  string         `json:"first_name"`
		LastName   string         `json:"last_name"`
		Created    string         `json:"created"`
		Updated    string         `json:"updated"`
		Properties map[string]any `json:"properties"`
	} `json:"attributes"`
}

type profilesResp struct {
	Data  []profileResource `json:"data"`
	Links struct {
		Next string `json:"next"`
	} `json:"links"`
}

// ListProfiles returns up to limit profiles of the list, newest first. Pages are
// capped at 100 by the platform, so the next-page cursor is followed until limit is reached.
func (cl *Client) ListProfiles(ctx context.Context, limit int) ([]models.EmailProfile, error) {
	if limit <= 0 {
		limit = DefaultProfileLimit
	}
	next := cl.cfg.BaseURL + "/lists/" + cl.cfg.ListID + "/profiles"
	q := url.Values{
		"page[size]": {strconv.Itoa(min(limit, maxPageSize))},
		"sort":       {"-created"},
	}

	out := make([]models.EmailProfile, 0, min(limit, metricsProfileLimit))
	for next != "" && len(out) < limit {
		fetched := next
		if len(q) > 0 {
			fetched += "?" + q.Encode()
		}
		var resp profilesResp
		err := upstream.Do(ctx, cl.c, upstream.Call{
			Platform: platform,
			Op:       "list_profiles",
			URL:      next,
			Query:    q,
			Header:   cl.headers(),
		}, &resp)
		if err != nil {
			return nil, err
		}
		for _, p := range resp.Data {
			if len(out) == limit {
				break
			}
			out = append(out, toProfile(p))
		}
		// an empty page or a cursor pointing back at itself ends the walk
		if len(resp.Data) == 0 || resp.Links.Next == fetched {
			break
		}
		// the cursor URL already carries every query parameter
		next, q = resp.Links.Next, nil
	}
	cl.log.Debug("klaviyo profiles fetched", zap.Int("count", len(out)), zap.Int("limit", limit))
	return out, nil
}

func toProfile(p profileResource) models.EmailProfile {
	out := models.EmailProfile{
		ID:         p.ID,
		Email:      p.Attributes.Email,
		FirstName:  p.Attributes.FirstName,
		LastName:   p.Attributes.LastName,
		Created:    parseTime(p.Attributes.Created),
		Properties: p.Attributes.Properties,
	}
	if u := parseTime(p.Attributes.Updated); !u.IsZero() {
		out.Updated = &u
	}
	return out
}

// parseTime accepts the RFC3339 timestamps the API returns; anything else is the zero time.
func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func (cl *Client) GetListDetails(ctx context.Context) (models.EmailListDetails, error) {
	var resp struct {
		Data struct {
			ID         string `json:"id"`
			Attributes struct {
				Name         string `json:"name"`
				Created      string `json:"created"`
				Updated      string `json:"updated"`
				ProfileCount int    `json:"profile_count"`
			} `json:"attributes"`
		} `json:"data"`
	}
	err := upstream.Do(ctx, cl.c, upstream.Call{
		Platform: platform,
		Op:       "get_list",
		URL:      cl.cfg.BaseURL + "/lists/" + cl.cfg.ListID,
		Query: url.Values{
			"fields[list]":            {"name,created,updated,profile_count"},
			"additional-fields[list]": {"profile_count"},
		},
		Header: cl.headers(),
	}, &resp)
	if err != nil {
		return models.EmailListDetails{}, err
	}
	a := resp.Data.Attributes
	return models.EmailListDetails{
		ID:           resp.Data.ID,
		Name:         a.Name,
		Created:      a.Created,
		Updated:      a.Updated,
		ProfileCount: a.ProfileCount,
	}, nil
}
