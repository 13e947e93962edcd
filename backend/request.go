package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/pkg/errors"
)

// maxErrorBody bounds how much of a failed response is kept in an APIError.
const maxErrorBody = 4 << 10

type outboundRequest struct {
	Method      string
	Path        string
	BearerToken string
	ReqBodyObj  interface{}
	SuccessCode int
	RespObj     interface{}
}

func (c *Client) executeRequest(ctx context.Context, apiReq outboundRequest) error {
	resp, err := c.submitRequest(ctx, apiReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if apiReq.RespObj == nil {
		return nil
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errors.Wrap(err, "error reading response body")
	}
	if err := json.Unmarshal(body, apiReq.RespObj); err != nil {
		return errors.Wrap(err, "error unmarshaling response body")
	}
	return nil
}

func (c *Client) submitRequest(ctx context.Context, apiReq outboundRequest) (*http.Response, error) {
	var reqBodyReader io.Reader
	if apiReq.ReqBodyObj != nil {
		reqBodyBytes, err := json.Marshal(apiReq.ReqBodyObj)
		if err != nil {
			return nil, errors.Wrap(err, "error marshaling request body")
		}
		reqBodyReader = bytes.NewReader(reqBodyBytes)
	}

	url := fmt.Sprintf("%s/%s", strings.TrimRight(c.BaseURL, "/"), strings.TrimLeft(apiReq.Path, "/"))
	req, err := http.NewRequestWithContext(ctx, apiReq.Method, url, reqBodyReader)
	if err != nil {
		return nil, errors.Wrapf(err, "error creating request %s %s", apiReq.Method, apiReq.Path)
	}
	req.Header.Set("Accept", "application/json")
	if reqBodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if apiReq.BearerToken != "" {
		req.Header.Set("Authorization", "Bearer "+apiReq.BearerToken)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "error invoking %s %s", apiReq.Method, apiReq.Path)
	}

	successCode := apiReq.SuccessCode
	if successCode == 0 {
		successCode = http.StatusOK
	}
	if resp.StatusCode == successCode {
		return resp, nil
	}

	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return nil, newAPIError(apiReq.Path, resp.StatusCode, body)
}
