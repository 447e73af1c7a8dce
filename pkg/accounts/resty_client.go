package accounts

import (
	"encoding/json"
	"net/http"

	"github.com/go-resty/resty/v2"
)

type RestyClient struct {
	baseURL string
	client  *resty.Client
}

func NewRestyClient(baseURL string) *RestyClient {
	return &RestyClient{
		baseURL: baseURL,
		client:  resty.New(),
	}
}

func (c *RestyClient) Exists(email string) (bool, error) {
	resp, err := c.client.R().
		SetQueryParam("email", email).
		Get(c.baseURL + "/api/accounts/exists")
	if err != nil {
		return false, err
	}

	if resp.StatusCode() == http.StatusNotFound {
		return false, nil
	}

	if resp.IsError() {
		return false, toErrorFromResponse(resp)
	}

	var body struct {
		Exists bool `json:"exists"`
	}

	if err := json.Unmarshal(resp.Body(), &body); err != nil {
		return false, err
	}

	return body.Exists, nil
}
