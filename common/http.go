package common

import (
	"context"
	"github.com/hashicorp/go-retryablehttp"
	"net"
	"net/http"
	"time"
)

// NewRetryableHttpClient builds the http client handed to the vendor SDKs.
// Request retries beyond this transport layer stay owned by the SDKs.
func NewRetryableHttpClient(
	ctx context.Context,
	reqTimeout,
	maxConnection int32) (client *http.Client) {

	InfoLogger.WithContext(ctx).Debug(
		"NewRetryableHttpClient start.")

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = Attempts
	retryClient.RetryWaitMin = Delay * time.Second
	retryClient.RetryWaitMax = Delay * 10 * time.Second
	retryClient.Logger = nil
	retryClient.HTTPClient = &http.Client{
		Timeout: time.Duration(reqTimeout) * time.Second,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout:   30 * time.Second,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:        int(maxConnection),
			MaxIdleConnsPerHost: int(maxConnection),
			IdleConnTimeout:     90 * time.Second,
		},
	}

	InfoLogger.WithContext(ctx).Debug(
		"NewRetryableHttpClient finish.")
	return retryClient.StandardClient()
}
