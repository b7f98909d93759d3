package housing

import (
	"context"
	"encoding/json"
	"fmt"

	"housing-notifier/internal/components/telemetry"
	"housing-notifier/internal/config"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

var tracer = otel.Tracer("housing-notifier/housing")

const (
	report_client_fetch_housings = "client.fetch-housings"
)

// Poster is the transport the client sends its request through,
// implemented by transport.Client.
type Poster interface {
	Post(ctx context.Context, url string, headers map[string]string, body any) (json.RawMessage, error)
}

type Client struct {
	url  string
	http Poster
	tel  telemetry.API
}

// NewClient fails with a ConfigurationError when apiUrl is empty.
func NewClient(apiUrl string, http Poster, tel telemetry.API) (*Client, error) {
	if apiUrl == "" {
		return nil, &config.ConfigurationError{Key: config.EnvApiUrl}
	}
	return &Client{
		url:  apiUrl,
		http: http,
		tel:  telemetry.NewScopedAPI("housing_client", tel),
	}, nil
}

var requestHeaders = map[string]string{
	"Content-Type": "application/json",
	"Accept":       "application/json",
}

// FetchHousings runs the GetHousingIds query and returns the undecoded response.
func (c *Client) FetchHousings(ctx context.Context, criteria SearchCriteria) (json.RawMessage, error) {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("graphql:%s", OperationName))
	defer span.End()

	req := BuildQuery(criteria)

	serialized, err := json.Marshal(req.Variables)
	if err == nil {
		span.SetAttributes(attribute.String("custom.variables", string(serialized)))
	}
	span.SetAttributes(attribute.String("custom.name", OperationName))
	c.tel.ReportDebug(report_client_fetch_housings, req.Variables.Input)

	res, err := c.http.Post(ctx, c.url, requestHeaders, req)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "failed to fetch")
		return nil, err
	}

	return res, nil
}
