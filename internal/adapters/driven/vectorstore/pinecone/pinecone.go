// Package pinecone provides a vector store adapter using the Pinecone
// REST API. Retrieval partitions map onto Pinecone namespaces within a
// single index.
package pinecone

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/maestro-chat/maestro/internal/core/domain"
	"github.com/maestro-chat/maestro/internal/core/ports/driven"
	"github.com/maestro-chat/maestro/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Default configuration values.
const (
	DefaultControlURL = "https://api.pinecone.io"
	DefaultTimeout    = 30 * time.Second
	DefaultMetric     = "cosine"
	DefaultCloud      = "aws"
	DefaultRegion     = "us-east-1"

	apiVersion = "2024-07"
)

// Config holds configuration for the Pinecone store.
type Config struct {
	// APIKey is the Pinecone API key (required).
	APIKey string

	// IndexName is the index to operate on (required).
	IndexName string

	// IndexHost is the data-plane host of the index. When empty it is
	// looked up from the control plane on first use.
	IndexHost string

	// ControlURL is the control-plane base URL (default: https://api.pinecone.io).
	ControlURL string

	// Cloud and Region place a newly created serverless index.
	Cloud  string
	Region string

	// Timeout is the request timeout (default: 30s).
	Timeout time.Duration
}

// Store is a REST client to one Pinecone index.
type Store struct {
	client     *http.Client
	apiKey     string
	indexName  string
	indexHost  string
	controlURL string
	cloud      string
	region     string
}

// queryRequest is the data-plane /query request format.
type queryRequest struct {
	Namespace       string    `json:"namespace"`
	TopK            int       `json:"topK"`
	Vector          []float32 `json:"vector"`
	IncludeMetadata bool      `json:"includeMetadata"`
}

// queryResponse is the data-plane /query response format.
type queryResponse struct {
	Matches []struct {
		ID       string            `json:"id"`
		Score    float64           `json:"score"`
		Metadata map[string]string `json:"metadata"`
	} `json:"matches"`
}

// upsertVector is one vector in a data-plane upsert.
type upsertVector struct {
	ID       string            `json:"id"`
	Values   []float32         `json:"values"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// upsertRequest is the data-plane /vectors/upsert request format.
type upsertRequest struct {
	Vectors   []upsertVector `json:"vectors"`
	Namespace string         `json:"namespace"`
}

// createIndexRequest is the control-plane index creation format.
type createIndexRequest struct {
	Name      string `json:"name"`
	Dimension int    `json:"dimension"`
	Metric    string `json:"metric"`
	Spec      struct {
		Serverless struct {
			Cloud  string `json:"cloud"`
			Region string `json:"region"`
		} `json:"serverless"`
	} `json:"spec"`
}

// indexDescription is the control-plane index description format.
type indexDescription struct {
	Name   string `json:"name"`
	Host   string `json:"host"`
	Status struct {
		Ready bool   `json:"ready"`
		State string `json:"state"`
	} `json:"status"`
}

// NewStore creates a Pinecone store client.
func NewStore(cfg Config) (*Store, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("pinecone: API key is required")
	}
	if cfg.IndexName == "" {
		return nil, fmt.Errorf("pinecone: index name is required")
	}
	if cfg.ControlURL == "" {
		cfg.ControlURL = DefaultControlURL
	}
	if cfg.Cloud == "" {
		cfg.Cloud = DefaultCloud
	}
	if cfg.Region == "" {
		cfg.Region = DefaultRegion
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}

	return &Store{
		client:     &http.Client{Timeout: cfg.Timeout},
		apiKey:     cfg.APIKey,
		indexName:  cfg.IndexName,
		indexHost:  normaliseHost(cfg.IndexHost),
		controlURL: strings.TrimSuffix(cfg.ControlURL, "/"),
		cloud:      cfg.Cloud,
		region:     cfg.Region,
	}, nil
}

// Query returns the top-k passages for the vector within one namespace.
func (s *Store) Query(ctx context.Context, namespace domain.Namespace, vector []float32, k int) ([]domain.Passage, error) {
	host, err := s.host(ctx)
	if err != nil {
		return nil, err
	}

	reqBody := queryRequest{
		Namespace:       string(namespace),
		TopK:            k,
		Vector:          vector,
		IncludeMetadata: true,
	}

	var resp queryResponse
	if err := s.doJSON(ctx, http.MethodPost, host+"/query", reqBody, &resp); err != nil {
		return nil, fmt.Errorf("%w: query: %w", domain.ErrVectorStoreUnavailable, err)
	}

	passages := make([]domain.Passage, 0, len(resp.Matches))
	for _, match := range resp.Matches {
		passages = append(passages, domain.Passage{
			Text:  match.Metadata["text"],
			Score: match.Score,
		})
	}
	return passages, nil
}

// Upsert writes chunks and their vectors into one namespace.
func (s *Store) Upsert(ctx context.Context, namespace domain.Namespace, chunks []domain.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("pinecone: %d chunks for %d vectors", len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	host, err := s.host(ctx)
	if err != nil {
		return err
	}

	reqBody := upsertRequest{
		Vectors:   make([]upsertVector, len(chunks)),
		Namespace: string(namespace),
	}
	for i, chunk := range chunks {
		reqBody.Vectors[i] = upsertVector{
			ID:     chunk.ID,
			Values: vectors[i],
			Metadata: map[string]string{
				"text":        chunk.Text,
				"source_file": chunk.SourceFile,
				"position":    fmt.Sprintf("%d", chunk.Position),
			},
		}
	}

	if err := s.doJSON(ctx, http.MethodPost, host+"/vectors/upsert", reqBody, nil); err != nil {
		return fmt.Errorf("%w: upsert: %w", domain.ErrVectorStoreUnavailable, err)
	}
	return nil
}

// EnsureIndex creates the index when it does not exist yet.
func (s *Store) EnsureIndex(ctx context.Context, dimensions int) error {
	desc, err := s.describeIndex(ctx)
	if err == nil {
		s.indexHost = normaliseHost(desc.Host)
		return nil
	}
	return s.createIndex(ctx, dimensions)
}

// Reset drops the index and recreates it empty, so a rebuild never
// leaves stale vectors behind.
func (s *Store) Reset(ctx context.Context, dimensions int) error {
	url := fmt.Sprintf("%s/indexes/%s", s.controlURL, s.indexName)
	if err := s.doJSON(ctx, http.MethodDelete, url, nil, nil); err != nil {
		// A missing index is fine; anything else is not.
		if !strings.Contains(err.Error(), "404") {
			return fmt.Errorf("%w: delete index: %w", domain.ErrVectorStoreUnavailable, err)
		}
	}
	s.indexHost = ""
	return s.createIndex(ctx, dimensions)
}

// Ping verifies the control plane is reachable and the key is accepted.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.doJSON(ctx, http.MethodGet, s.controlURL+"/indexes", nil, nil); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrVectorStoreUnavailable, err)
	}
	return nil
}

// Close releases resources. The shared HTTP client needs no teardown.
func (s *Store) Close() error {
	return nil
}

// host returns the data-plane host, resolving it once via the control
// plane when the configuration did not pin it.
func (s *Store) host(ctx context.Context) (string, error) {
	if s.indexHost != "" {
		return s.indexHost, nil
	}
	desc, err := s.describeIndex(ctx)
	if err != nil {
		return "", fmt.Errorf("%w: describe index: %w", domain.ErrVectorStoreUnavailable, err)
	}
	s.indexHost = normaliseHost(desc.Host)
	return s.indexHost, nil
}

func (s *Store) describeIndex(ctx context.Context) (*indexDescription, error) {
	var desc indexDescription
	url := fmt.Sprintf("%s/indexes/%s", s.controlURL, s.indexName)
	if err := s.doJSON(ctx, http.MethodGet, url, nil, &desc); err != nil {
		return nil, err
	}
	return &desc, nil
}

func (s *Store) createIndex(ctx context.Context, dimensions int) error {
	reqBody := createIndexRequest{
		Name:      s.indexName,
		Dimension: dimensions,
		Metric:    DefaultMetric,
	}
	reqBody.Spec.Serverless.Cloud = s.cloud
	reqBody.Spec.Serverless.Region = s.region

	var desc indexDescription
	if err := s.doJSON(ctx, http.MethodPost, s.controlURL+"/indexes", reqBody, &desc); err != nil {
		return fmt.Errorf("%w: create index: %w", domain.ErrVectorStoreUnavailable, err)
	}
	s.indexHost = normaliseHost(desc.Host)
	logger.Info("created pinecone index %q (dimensions=%d)", s.indexName, dimensions)
	return nil
}

func (s *Store) doJSON(ctx context.Context, method, url string, reqBody, respBody any) error {
	var payload io.Reader
	if reqBody != nil {
		data, err := json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		payload = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, payload)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Api-Key", s.apiKey)
	req.Header.Set("X-Pinecone-Api-Version", apiVersion)
	if reqBody != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if respBody != nil && len(body) > 0 {
		if err := json.Unmarshal(body, respBody); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// normaliseHost accepts hosts with or without a scheme.
func normaliseHost(host string) string {
	if host == "" {
		return ""
	}
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "https://" + host
	}
	return strings.TrimSuffix(host, "/")
}
