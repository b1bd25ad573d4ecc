package collect

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/arloliu/bedwatch/types"
)

// HTTPSource is the live PageFetcher backed by an HTTP upstream.
//
// One call is issued per partition per page; the partition key, page number
// and page size travel as query parameters. The response body is returned
// raw; decoding is the collector's concern.
type HTTPSource struct {
	baseURL    string
	serviceKey string
	client     *http.Client
}

var _ types.PageFetcher = (*HTTPSource)(nil)

// NewHTTPSource creates an HTTP page fetcher.
//
// Parameters:
//   - baseURL: Upstream endpoint URL
//   - serviceKey: Upstream API key, sent as the serviceKey query parameter
//     (empty to omit)
//   - timeout: Per-request timeout (defaults to 10s when zero)
func NewHTTPSource(baseURL, serviceKey string, timeout time.Duration) *HTTPSource {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &HTTPSource{
		baseURL:    baseURL,
		serviceKey: serviceKey,
		client:     &http.Client{Timeout: timeout},
	}
}

// FetchPage implements types.PageFetcher.
func (s *HTTPSource) FetchPage(ctx context.Context, partition string, page, pageSize int) ([]byte, error) {
	q := url.Values{}
	if s.serviceKey != "" {
		q.Set("serviceKey", s.serviceKey)
	}
	if partition != "" {
		q.Set("region", partition)
	}
	q.Set("pageNo", strconv.Itoa(page))
	q.Set("numOfRows", strconv.Itoa(pageSize))
	q.Set("format", "json")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build upstream request: %w", err)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("upstream request failed: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read upstream response: %w", err)
	}

	return body, nil
}
