/*
 * @module client/bdl_client
 * @description GUS BDL (Bank Danych Lokalnych) API client: paginated fetch of
 *              housing maintenance cost data with retry and content hashing
 * @architecture Client layer - outbound HTTP
 * @stateFlow Variable discovery -> per-variable, per-year data fetch -> dataset assembly -> content hash
 * @rules 429 responses back off exponentially; 404 means no data, not an error
 * @dependencies net/http, crypto/sha256, gus-analytics-service/service/config
 * @refs service/etl/pipeline.go, client/dataset_cache.go
 */

package client

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"gus-analytics-service/service/config"
)

// Observation is a single (year, value) pair for one unit. Value is nil when
// the source reports no data for the year. Year stays loosely typed because
// the API has served it both as a number and as a string.
type Observation struct {
	Year  interface{} `json:"year"`
	Value *float64    `json:"val"`
}

// RawRecord is one unit's observation series for one source variable.
type RawRecord struct {
	UnitID       string        `json:"id"`
	UnitName     string        `json:"name"`
	VariableID   int           `json:"variable_id"`
	VariableName string        `json:"variable_name"`
	Observations []Observation `json:"values"`
}

// Dataset is a complete fetched payload plus its provenance.
type Dataset struct {
	SubjectID string                 `json:"subject_id"`
	Name      string                 `json:"name"`
	Records   []RawRecord            `json:"records"`
	Metadata  map[string]interface{} `json:"metadata"`
	FetchedAt time.Time              `json:"fetched_at"`
	Hash      string                 `json:"hash"`
}

type variable struct {
	ID   int    `json:"id"`
	Name string `json:"n1"`
}

type pageResponse struct {
	TotalRecords int               `json:"totalRecords"`
	Results      []json.RawMessage `json:"results"`
}

// BDLClient talks to the GUS BDL REST API.
type BDLClient struct {
	baseURL    string
	apiKey     string
	retryCount int
	retryDelay time.Duration
	pageSize   int
	subgroupID string
	httpClient *http.Client
}

// NewBDLClient builds a client from configuration.
func NewBDLClient(cfg config.BDLConfig) *BDLClient {
	return &BDLClient{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		retryCount: cfg.RetryCount,
		retryDelay: cfg.RetryDelay,
		pageSize:   cfg.PageSize,
		subgroupID: cfg.SubgroupID,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *BDLClient) request(ctx context.Context, endpoint string, params url.Values) (*pageResponse, error) {
	reqURL := fmt.Sprintf("%s/%s", c.baseURL, endpoint)
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	var lastErr error
	for attempt := 0; attempt < c.retryCount; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		req.Header.Set("User-Agent", "gus-analytics-service/1.0")
		if c.apiKey != "" {
			req.Header.Set("X-ClientId", c.apiKey)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			lastErr = err
			if attempt < c.retryCount-1 {
				select {
				case <-time.After(c.retryDelay):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				continue
			}
			return nil, lastErr
		}

		body, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusTooManyRequests:
			// Rate limited: exponential backoff, then retry.
			wait := c.retryDelay * time.Duration(1<<attempt)
			slog.Warn("BDL API rate limited", "endpoint", endpoint, "wait", wait)
			select {
			case <-time.After(wait):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
			continue
		case resp.StatusCode == http.StatusNotFound:
			return nil, nil
		case resp.StatusCode >= 400:
			lastErr = fmt.Errorf("BDL API status %d for %s", resp.StatusCode, endpoint)
			if attempt < c.retryCount-1 {
				select {
				case <-time.After(c.retryDelay):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				continue
			}
			return nil, lastErr
		}

		if readErr != nil {
			return nil, readErr
		}

		var page pageResponse
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decoding BDL response: %w", err)
		}
		return &page, nil
	}

	return nil, lastErr
}

// getVariables lists the variables of the configured subgroup.
func (c *BDLClient) getVariables(ctx context.Context) ([]variable, error) {
	params := url.Values{}
	params.Set("subject-id", c.subgroupID)

	var all []variable
	for page := 0; ; page++ {
		params.Set("page", strconv.Itoa(page))
		params.Set("page-size", strconv.Itoa(c.pageSize))

		resp, err := c.request(ctx, "variables", params)
		if err != nil {
			return nil, err
		}
		if resp == nil || len(resp.Results) == 0 {
			break
		}

		for _, raw := range resp.Results {
			var v variable
			if err := json.Unmarshal(raw, &v); err != nil {
				return nil, err
			}
			all = append(all, v)
		}

		if len(all) >= resp.TotalRecords {
			break
		}
	}
	return all, nil
}

// getDataByVariable fetches all unit series for one variable across years.
func (c *BDLClient) getDataByVariable(ctx context.Context, v variable, years []int, unitLevel int) ([]RawRecord, error) {
	var all []RawRecord

	for _, year := range years {
		params := url.Values{}
		params.Set("year", strconv.Itoa(year))
		params.Set("unit-level", strconv.Itoa(unitLevel))

		endpoint := fmt.Sprintf("data/by-variable/%d", v.ID)

		for page := 0; ; page++ {
			params.Set("page", strconv.Itoa(page))
			params.Set("page-size", strconv.Itoa(c.pageSize))

			resp, err := c.request(ctx, endpoint, params)
			if err != nil {
				return nil, err
			}
			if resp == nil || len(resp.Results) == 0 {
				break
			}

			for _, raw := range resp.Results {
				var rec RawRecord
				if err := json.Unmarshal(raw, &rec); err != nil {
					return nil, err
				}
				rec.VariableID = v.ID
				rec.VariableName = v.Name
				all = append(all, rec)
			}

			fetched := (page + 1) * c.pageSize
			if fetched >= resp.TotalRecords || len(resp.Results) < c.pageSize {
				break
			}
		}
	}
	return all, nil
}

// FetchMaintenanceCosts pulls the full maintenance cost dataset for the given
// years and administrative unit level, and stamps it with a content hash.
func (c *BDLClient) FetchMaintenanceCosts(ctx context.Context, years []int, unitLevel int) (*Dataset, error) {
	if len(years) == 0 {
		years = []int{2018, 2020, 2022, 2024}
	}

	variables, err := c.getVariables(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing variables for subgroup %s: %w", c.subgroupID, err)
	}

	var records []RawRecord
	for _, v := range variables {
		data, err := c.getDataByVariable(ctx, v, years, unitLevel)
		if err != nil {
			return nil, fmt.Errorf("fetching variable %d: %w", v.ID, err)
		}
		records = append(records, data...)
	}

	hash, err := contentHash(records)
	if err != nil {
		return nil, err
	}

	return &Dataset{
		SubjectID: c.subgroupID,
		Name:      "Koszty utrzymania zasobów mieszkaniowych",
		Records:   records,
		Metadata: map[string]interface{}{
			"years":           years,
			"unit_level":      unitLevel,
			"variables_count": len(variables),
			"records_count":   len(records),
		},
		FetchedAt: time.Now(),
		Hash:      hash,
	}, nil
}

// contentHash computes the SHA-256 of the canonical JSON form of the records.
func contentHash(records []RawRecord) (string, error) {
	payload, err := json.Marshal(records)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:]), nil
}
