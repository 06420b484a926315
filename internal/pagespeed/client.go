// Package pagespeed provides a thin client for the Google PageSpeed
// Insights v5 API.
package pagespeed

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/valyala/fasthttp"
)

// DefaultEndpoint is the production PageSpeed Insights API endpoint.
const DefaultEndpoint = "https://www.googleapis.com/pagespeedonline/v5/runPagespeed"

// ErrBadStatus indicates the API answered with a non-OK status code.
var ErrBadStatus = errors.New("unexpected response status")

// Client queries the PageSpeed Insights API. Requests carry no timeout:
// a measurement run can legitimately take tens of seconds and the
// caller has no cancellation path.
type Client struct {
	endpoint string
	apiKey   string
	http     *fasthttp.Client
	log      logrus.FieldLogger
}

// New creates a client against the given endpoint. An empty endpoint
// selects the production API; an empty apiKey omits the key parameter.
func New(endpoint, apiKey string, log logrus.FieldLogger) *Client {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}

	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		http:     &fasthttp.Client{},
		log:      log.WithField("component", "pagespeed_client"),
	}
}

// Run requests a single measurement of url with the given strategy and
// decodes the report.
func (c *Client) Run(url, strategy string) (*Result, error) {
	args := fasthttp.AcquireArgs()
	defer fasthttp.ReleaseArgs(args)

	args.Set("url", url)
	args.Set("strategy", strategy)
	if c.apiKey != "" {
		args.Set("key", c.apiKey)
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.Header.SetMethod(fasthttp.MethodGet)
	req.SetRequestURI(fmt.Sprintf("%s?%s", c.endpoint, args.QueryString()))

	c.log.WithFields(logrus.Fields{
		"url":      url,
		"strategy": strategy,
	}).Debug("Requesting measurement")

	if err := c.http.Do(req, resp); err != nil {
		return nil, fmt.Errorf("pagespeed request failed: %w", err)
	}

	if resp.StatusCode() != fasthttp.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrBadStatus, resp.StatusCode())
	}

	var res Result
	if err := json.Unmarshal(resp.Body(), &res); err != nil {
		return nil, fmt.Errorf("failed to decode pagespeed response: %w", err)
	}

	return &res, nil
}
