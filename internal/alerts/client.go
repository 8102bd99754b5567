package alerts

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cduggan1/group-design-project-10/internal/shared/geo"
)

// Warnings are issued for the whole country; the feed carries no
// coordinates, so alerts are centred on Ireland with a wide radius.
var irelandCentre = geo.Point{Lat: 53.4129, Lng: -8.2439}

const nationalRadiusKm = 200

// Client fetches the national weather warnings feed.
type Client struct {
	feedURL    string
	httpClient *http.Client
}

func NewClient(feedURL string) *Client {
	return &Client{
		feedURL: feedURL,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type warningsFeed struct {
	Warning *struct {
		GlobalAwarenessLevel struct {
			Text string `xml:"text"`
		} `xml:"globalAwarenessLevel"`
		Types []struct {
			Header        string `xml:"header"`
			WarnText      string `xml:"warnText"`
			ValidFromTime string `xml:"validFromTime"`
			ValidToTime   string `xml:"validToTime"`
		} `xml:"warnType>warningType"`
	} `xml:"warning"`
}

// Fetch returns the currently advertised warnings as alerts. A feed with
// no warnings yields a single low-severity "all clear" alert so clients
// always see a fresh status.
func (c *Client) Fetch(ctx context.Context) ([]Alert, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.feedURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create warnings request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch warnings: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("warnings API status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read warnings response: %w", err)
	}
	return parseWarningsXML(body, time.Now().UTC())
}

func parseWarningsXML(data []byte, now time.Time) ([]Alert, error) {
	var feed warningsFeed
	if err := xml.Unmarshal(data, &feed); err != nil {
		return nil, fmt.Errorf("parse warnings xml: %w", err)
	}

	if feed.Warning == nil {
		return []Alert{allClearAlert(now)}, nil
	}

	severity := mapSeverity(feed.Warning.GlobalAwarenessLevel.Text)

	var out []Alert
	for _, wt := range feed.Warning.Types {
		if wt.WarnText == "" {
			continue
		}
		title := wt.Header
		if title == "" {
			title = "Weather Warning"
		}
		out = append(out, Alert{
			Title:       title,
			Description: wt.WarnText,
			Severity:    severity,
			Centre:      irelandCentre,
			RadiusKm:    nationalRadiusKm,
			StartTime:   parseWarningTime(wt.ValidFromTime, now),
			EndTime:     parseWarningTime(wt.ValidToTime, now),
			Active:      true,
		})
	}
	if len(out) == 0 {
		return []Alert{allClearAlert(now)}, nil
	}
	return out, nil
}

func allClearAlert(now time.Time) Alert {
	return Alert{
		Title:       "No Active Weather Warnings",
		Description: "There are currently no weather warnings in effect for Ireland.",
		Severity:    SeverityLow,
		Centre:      irelandCentre,
		RadiusKm:    nationalRadiusKm,
		StartTime:   now,
		EndTime:     now,
		Active:      true,
	}
}

func parseWarningTime(raw string, fallback time.Time) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	return fallback
}

func mapSeverity(level string) string {
	switch level {
	case "Yellow", "Status Yellow":
		return SeverityLow
	case "Orange", "Status Orange":
		return SeverityModerate
	case "Red", "Status Red":
		return SeveritySevere
	}
	return SeverityLow
}
