package transport

import (
	"context"
	"encoding/json"
	"time"

	"housing-notifier/internal/components/telemetry"
	"housing-notifier/internal/config"

	"github.com/go-resty/resty/v2"
)

const (
	report_client_post = "client.post"
)

type Options struct {
	// Name is used for the telemetry namespace and the tracer name.
	Name      string
	Timeout   time.Duration
	UserAgent string
	// Output receives raw HTTP exchanges when set, see restyutil.FilesystemOutput.
	Output telemetry.InstrumentOutput
}

// Client performs single-attempt JSON POSTs. It never retries, every failure
// is returned as one of the error types in errors.go.
type Client struct {
	http *resty.Client
	tel  telemetry.API
}

func NewClient(tel telemetry.API, opts Options) *Client {
	if opts.Name == "" {
		opts.Name = "transport"
	}
	tel = telemetry.NewScopedAPI(opts.Name, tel)

	httpClient := resty.New()
	if opts.Timeout > 0 {
		httpClient.SetTimeout(opts.Timeout)
	}
	if opts.UserAgent != "" {
		httpClient.SetHeader("user-agent", opts.UserAgent)
	}
	httpClient.SetRetryCount(0)

	telemetry.InstrumentResty(httpClient, opts.Name+"/http", tel, opts.Output)

	return &Client{http: httpClient, tel: tel}
}

// Post sends body as JSON to url and returns the raw response body of a 2xx
// response. The body is not validated here, decoding belongs to the caller.
func (c *Client) Post(ctx context.Context, url string, headers map[string]string, body any) (json.RawMessage, error) {
	if url == "" {
		err := &config.ConfigurationError{Key: "url", Reason: "endpoint url is empty"}
		c.tel.ReportBroken(report_client_post, err)
		return nil, err
	}

	req := c.http.R().
		SetContext(ctx).
		SetHeader("content-type", "application/json").
		SetBody(body)
	for k, v := range headers {
		req.SetHeader(k, v)
	}

	res, err := req.Post(url)
	if err != nil {
		classified := classify(err)
		c.tel.ReportBroken(report_client_post, classified, url)
		return nil, classified
	}

	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		statusErr := &HttpStatusError{
			StatusCode: res.StatusCode(),
			Status:     res.Status(),
			Body:       truncateBody(res.Body()),
		}
		c.tel.ReportBroken(report_client_post, statusErr, url)
		return nil, statusErr
	}

	c.tel.ReportDebug(report_client_post, url, res.Status())
	return json.RawMessage(res.Body()), nil
}
