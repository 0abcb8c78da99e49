// Package engine provides the SQL execution engines. Both talk to sibling
// services over HTTP: wren_ui goes through the UI service's GraphQL preview
// endpoint, wren_ibis through the ibis server's connector API.
package engine

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/go-resty/resty/v2"
	jsoniter "github.com/json-iterator/go"

	"github.com/tedyyan/WrenAI/pkg/provider"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

func newHTTPClient(endpoint string, timeoutSeconds int) *resty.Client {
	client := resty.New().
		SetBaseURL(endpoint).
		SetTimeout(time.Duration(timeoutSeconds) * time.Second).
		SetHeader("Content-Type", "application/json")
	client.JSONMarshal = json.Marshal
	client.JSONUnmarshal = json.Unmarshal
	return client
}

// UIConfig is the normalized engine configuration for wren_ui.
type UIConfig struct {
	Provider string `mapstructure:"provider"`
	Endpoint string `mapstructure:"endpoint"`
	Timeout  int    `mapstructure:"timeout"`
}

// WrenUI executes SQL through the Wren UI GraphQL API.
type WrenUI struct {
	http *resty.Client
}

const previewSQLQuery = `mutation PreviewSql($data: PreviewSQLDataInput!) {
  previewSql(data: $data)
}`

// NewWrenUI constructs the wren_ui engine.
func NewWrenUI(config map[string]any) (provider.Provider, error) {
	cfg := UIConfig{Timeout: 30}
	if err := provider.DecodeConfig(config, &cfg); err != nil {
		return nil, fmt.Errorf("wren_ui: %w", err)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = envOr("WREN_UI_ENDPOINT", "http://localhost:3000")
	}
	return &WrenUI{http: newHTTPClient(cfg.Endpoint, cfg.Timeout)}, nil
}

func (e *WrenUI) Name() string { return "wren_ui" }

type graphqlResponse struct {
	Data   jsoniter.RawMessage `json:"data"`
	Errors []struct {
		Message string `json:"message"`
	} `json:"errors"`
}

func (e *WrenUI) Execute(ctx context.Context, sql string, dryRun bool) ([]byte, error) {
	var out graphqlResponse
	resp, err := e.http.R().
		SetContext(ctx).
		SetBody(map[string]any{
			"query": previewSQLQuery,
			"variables": map[string]any{
				"data": map[string]any{"sql": sql, "dryRun": dryRun},
			},
		}).
		SetResult(&out).
		Post("/api/graphql")
	if err != nil {
		return nil, fmt.Errorf("wren_ui: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("wren_ui: %s", resp.Status())
	}
	if len(out.Errors) > 0 {
		return nil, fmt.Errorf("wren_ui: %s", out.Errors[0].Message)
	}
	return out.Data, nil
}

// IbisConfig is the normalized engine configuration for wren_ibis.
type IbisConfig struct {
	Provider   string `mapstructure:"provider"`
	Endpoint   string `mapstructure:"endpoint"`
	DataSource string `mapstructure:"source"`
	Timeout    int    `mapstructure:"timeout"`
}

// WrenIbis executes SQL through the ibis server's connector API.
type WrenIbis struct {
	http   *resty.Client
	source string
}

// NewWrenIbis constructs the wren_ibis engine.
func NewWrenIbis(config map[string]any) (provider.Provider, error) {
	cfg := IbisConfig{DataSource: "bigquery", Timeout: 30}
	if err := provider.DecodeConfig(config, &cfg); err != nil {
		return nil, fmt.Errorf("wren_ibis: %w", err)
	}
	if cfg.Endpoint == "" {
		cfg.Endpoint = envOr("WREN_IBIS_ENDPOINT", "http://localhost:8000")
	}
	return &WrenIbis{http: newHTTPClient(cfg.Endpoint, cfg.Timeout), source: cfg.DataSource}, nil
}

func (e *WrenIbis) Name() string { return "wren_ibis" }

func (e *WrenIbis) Execute(ctx context.Context, sql string, dryRun bool) ([]byte, error) {
	req := e.http.R().
		SetContext(ctx).
		SetBody(map[string]any{"sql": sql})
	if dryRun {
		req.SetQueryParam("dryRun", "true")
	}

	resp, err := req.Post("/v2/connector/" + e.source + "/query")
	if err != nil {
		return nil, fmt.Errorf("wren_ibis: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("wren_ibis: %s: %s", resp.Status(), resp.String())
	}
	return resp.Body(), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func init() {
	provider.Register(provider.KindEngine, "wren_ui", NewWrenUI)
	provider.Register(provider.KindEngine, "wren_ibis", NewWrenIbis)
}
