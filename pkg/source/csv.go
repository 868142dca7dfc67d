package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopmetrics/sentinel/pkg/model"
)

// CSVUserSource reads the customer list from the storefront's CSV export
// endpoint. The storefront has no JSON users API; the export is the only
// machine-readable view of the user base.
type CSVUserSource struct {
	url    string
	client *http.Client
}

// NewCSVUserSource creates a user source for the given export URL.
func NewCSVUserSource(url string, client *http.Client) *CSVUserSource {
	return &CSVUserSource{url: url, client: client}
}

func (s *CSVUserSource) Users(ctx context.Context) ([]model.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "text/csv")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch users: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch users: %s returned status %d", s.url, resp.StatusCode)
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1 // export rows are not strictly rectangular

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse users csv: %w", err)
	}
	if len(records) < 2 {
		return nil, nil
	}

	idCol := -1
	for i, header := range records[0] {
		if strings.EqualFold(strings.TrimSpace(header), "id") {
			idCol = i
			break
		}
	}
	if idCol < 0 {
		return nil, fmt.Errorf("parse users csv: no ID column in header %v", records[0])
	}

	var users []model.User
	for _, row := range records[1:] {
		if idCol >= len(row) {
			continue
		}
		id, err := strconv.ParseInt(strings.TrimSpace(row[idCol]), 10, 64)
		if err != nil || id == 0 {
			continue
		}
		users = append(users, model.User{ID: id})
	}
	return users, nil
}
