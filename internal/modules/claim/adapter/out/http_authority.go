package out

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"matchscout/internal/modules/claim/domain"
	claimout "matchscout/internal/modules/claim/port/out"
)

const requestTimeout = 10 * time.Second

// HTTPAuthority speaks the remote authority's wire contract. Authority
// answers (conflict, not-holder, regression, rejection) come back as the
// domain sentinels; anything else is a wrapped transport error.
type HTTPAuthority struct {
	baseURL string
	client  *http.Client
}

func NewHTTPAuthority(baseURL string) claimout.Transport {
	return &HTTPAuthority{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: requestTimeout},
	}
}

func (a *HTTPAuthority) slotPath(slot domain.Slot, op string) string {
	return fmt.Sprintf("%s/scouting/%s/%d/%d/%s", a.baseURL, url.PathEscape(slot.MatchType), slot.Match, slot.Team, op)
}

func (a *HTTPAuthority) patch(ctx context.Context, rawURL string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, rawURL, nil)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", domain.ErrUnreachable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	return resp.StatusCode, nil
}

func (a *HTTPAuthority) Claim(ctx context.Context, slot domain.Slot, scouter string) error {
	status, err := a.patch(ctx, a.slotPath(slot, "claim")+"?scouter="+url.QueryEscape(scouter))
	if err != nil {
		return err
	}
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusConflict:
		return domain.ErrConflict
	default:
		return fmt.Errorf("%w: claim status %d", domain.ErrUnreachable, status)
	}
}

func (a *HTTPAuthority) Unclaim(ctx context.Context, slot domain.Slot, scouter string) error {
	status, err := a.patch(ctx, a.slotPath(slot, "unclaim")+"?scouter="+url.QueryEscape(scouter))
	if err != nil {
		return err
	}
	if status < 200 || status >= 300 {
		return fmt.Errorf("%w: unclaim status %d", domain.ErrUnreachable, status)
	}
	return nil
}

func (a *HTTPAuthority) UpdateState(ctx context.Context, slot domain.Slot, scouter, phase string) error {
	rawURL := a.slotPath(slot, "state") + "?scouter=" + url.QueryEscape(scouter) + "&status=" + url.QueryEscape(phase)
	status, err := a.patch(ctx, rawURL)
	if err != nil {
		return err
	}
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusForbidden:
		return domain.ErrNotHolder
	case status == http.StatusBadRequest:
		return domain.ErrRegression
	default:
		return fmt.Errorf("%w: state status %d", domain.ErrUnreachable, status)
	}
}

func (a *HTTPAuthority) Submit(ctx context.Context, slot domain.Slot, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, a.slotPath(slot, "submit"), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build submit request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnreachable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: submit status %d", domain.ErrRejected, resp.StatusCode)
	}
	return nil
}

func (a *HTTPAuthority) ClaimMap(ctx context.Context, matchType string, match int, alliance string) (domain.ClaimMap, error) {
	rawURL := fmt.Sprintf("%s/match/%s/%d/%s/state", a.baseURL, url.PathEscape(matchType), match, url.PathEscape(alliance))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build state request: %w", err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnreachable, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: match state status %d", domain.ErrUnreachable, resp.StatusCode)
	}
	var decoded struct {
		Claims map[string]string `json:"claims"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode claim map: %w", err)
	}
	out := domain.ClaimMap{}
	for rawTeam, scouter := range decoded.Claims {
		team, err := strconv.Atoi(rawTeam)
		if err != nil {
			// Malformed entries are dropped, not fatal.
			continue
		}
		out[team] = scouter
	}
	return out, nil
}

func (a *HTTPAuthority) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/ping", nil)
	if err != nil {
		return fmt.Errorf("build ping request: %w", err)
	}
	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrUnreachable, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("%w: ping status %d", domain.ErrUnreachable, resp.StatusCode)
	}
	return nil
}
