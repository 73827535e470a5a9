package tools

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"

	"github.com/richard-senior/mcp/internal/logger"
	"github.com/richard-senior/mcp/pkg/protocol"
	"github.com/richard-senior/mcp/pkg/transport"
)

// SearchResult represents a single search result
type SearchResult struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// GoogleSearchTool returns the Google search tool definition
func GoogleSearchTool() protocol.Tool {
	return protocol.Tool{
		Name:        "google_search",
		Description: "Performs a google search for the given text and returns the top 'num' responses",
		InputSchema: protocol.InputSchema{
			Type: "object",
			Properties: map[string]protocol.SchemaProp{
				"query": {
					Type:        "string",
					Description: "The search string to be entered into google search",
				},
				"num": {
					Type:        "integer",
					Description: "The number of results to return",
				},
			},
			Required: []string{"query"},
		},
	}
}

// HandleGoogleSearchTool handles the Google search tool invocation
func HandleGoogleSearchTool(params any) (any, error) {
	logger.Info("handling google search tool invocation")

	args, ok := params.(map[string]any)
	if !ok {
		return nil, protocol.NewInvalidParamsError("google_search requires an object of arguments")
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, protocol.NewInvalidParamsError("google_search requires a non-empty 'query'")
	}

	numResults := 5
	if n, ok := args["num"].(float64); ok {
		numResults = int(n)
	}
	if numResults <= 0 || numResults > 10 {
		numResults = 5
	}

	results, err := googleSearch(query, numResults)
	if err != nil {
		return nil, err
	}

	return map[string]any{
		"results": results,
		"query":   query,
		"count":   len(results),
	}, nil
}

// googleSearch performs a Google Custom Search, reading credentials from
// GOOGLE_SEARCH_API_KEY and GOOGLE_SEARCH_ENGINE_ID.
func googleSearch(query string, numResults int) ([]SearchResult, error) {
	searchKey := os.Getenv("GOOGLE_SEARCH_API_KEY")
	searchEngineID := os.Getenv("GOOGLE_SEARCH_ENGINE_ID")
	if searchKey == "" || searchEngineID == "" {
		return nil, fmt.Errorf("GOOGLE_SEARCH_API_KEY and GOOGLE_SEARCH_ENGINE_ID must be set")
	}

	if numResults <= 0 {
		numResults = 5
	}

	const baseURL = "https://www.googleapis.com/customsearch/v1"

	params := url.Values{}
	params.Add("q", query)
	params.Add("key", searchKey)
	params.Add("cx", searchEngineID)
	params.Add("num", fmt.Sprintf("%d", numResults))

	searchURL := fmt.Sprintf("%s?%s", baseURL, params.Encode())

	client, err := transport.GetCustomHTTPClient()
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	req, err := http.NewRequest("GET", searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	logger.Info("performing google custom search for query", query)
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to search API: %w", err)
	}
	defer resp.Body.Close()

	// Check if the response status code is not 200 OK
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("search API returned error status %d: %s", resp.StatusCode, string(body))
	}

	// Read the response body
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}

	// Parse the JSON response
	var searchResponse struct {
		Items []struct {
			Title       string `json:"title"`
			Link        string `json:"link"`
			Snippet     string `json:"snippet"`
			DisplayLink string `json:"displayLink"`
		} `json:"items"`
	}

	err = json.Unmarshal(body, &searchResponse)
	if err != nil {
		return nil, fmt.Errorf("failed to parse API response: %w", err)
	}

	// Convert the API response to our SearchResult format
	var results []SearchResult
	for _, item := range searchResponse.Items {
		results = append(results, SearchResult{
			Title:       item.Title,
			URL:         item.Link,
			Description: item.Snippet,
		})
	}

	// Return the results, which may be an empty array if no results were found
	return results, nil
}
