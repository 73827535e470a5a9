package resources

import (
	"fmt"
	"sort"
	"strings"

	"github.com/richard-senior/mcp/pkg/protocol"
	"github.com/richard-senior/mcp/pkg/util"
)

// forecastRegions are the only regions the weather-forecast template
// actually has data for; offered as completion candidates for {region}.
var forecastRegions = []string{"us", "europe", "asia"}

// RegisterDocs wires the built-in documentation and dataset resources
// into reg, a URI-addressed rework of example.go's
// ExampleResource/WeatherResource (which had no read addressing scheme
// at all — just a flat Name/Type/Metadata record).
func RegisterDocs(reg *Registry) {
	reg.RegisterConcrete(protocol.Resource{
		URI:         "mcp://docs/example",
		Name:        "example_documentation",
		Description: "Example documentation resource for MCP",
		MimeType:    "text/markdown",
	}, func(uri string, _ map[string]string) (protocol.Content, error) {
		return protocol.TextResourceContent{
			URI:      uri,
			MimeType: "text/markdown",
			Text:     "# MCP Documentation\n\nThis is example documentation for the Model Context Protocol.",
		}, nil
	})

	reg.RegisterConcrete(protocol.Resource{
		URI:         "mcp://weather/current",
		Name:        "weather_data",
		Description: "Historical weather data resource",
		MimeType:    "application/json",
	}, func(uri string, _ map[string]string) (protocol.Content, error) {
		return protocol.TextResourceContent{
			URI:      uri,
			MimeType: "application/json",
			Text: `{"location":"San Francisco","current":{"temperature":72,"humidity":65,"conditions":"Partly Cloudy"},` +
				`"forecast":[{"day":"Tomorrow","temperature":75,"conditions":"Sunny"},{"day":"Day after","temperature":68,"conditions":"Cloudy"}]}`,
		}, nil
	})

	reg.RegisterTemplate(protocol.ResourceTemplate{
		URITemplate: "mcp://weather/forecast/{region}",
		Name:        "weather_forecast_by_region",
		Description: "Forecast for a named region (US, Europe, Asia)",
		MimeType:    "application/json",
	}, func(uri string, params map[string]string) (protocol.Content, error) {
		region := params["region"]
		return protocol.TextResourceContent{
			URI:      uri,
			MimeType: "application/json",
			Text:     fmt.Sprintf(`{"region":%q,"timeRange":"2020-2025","dataPoints":["temperature","humidity","precipitation"]}`, region),
		}, nil
	})

	reg.RegisterCompleter("mcp://weather/forecast/{region}", "region", func(partial string) []string {
		if partial == "" {
			return append([]string(nil), forecastRegions...)
		}

		type scored struct {
			region string
			score  float64
		}
		var matches []scored
		for _, region := range forecastRegions {
			if strings.HasPrefix(region, partial) {
				matches = append(matches, scored{region, 1.0})
				continue
			}
			if score := util.FuzzyMatchScore(partial, region); score >= 0.5 {
				matches = append(matches, scored{region, score})
			}
		}
		sort.SliceStable(matches, func(i, j int) bool { return matches[i].score > matches[j].score })

		out := make([]string, len(matches))
		for i, m := range matches {
			out[i] = m.region
		}
		return out
	})
}
