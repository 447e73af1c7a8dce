package accounts

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-resty/resty/v2"
)

var ErrAccountsAPI = errors.New("accounts api")

// errorResponse describes the JSON the account service responds with when an
// API call fails.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toErrorFromResponse(resp *resty.Response) error {
	var er errorResponse
	if err := json.Unmarshal(resp.Body(), &er); err != nil {
		return errors.Join(ErrAccountsAPI, fmt.Errorf("(HTTP Status: %d)- unable to parse json error response: %s", resp.RawResponse.StatusCode, err))
	}

	return errors.Join(ErrAccountsAPI, fmt.Errorf("(HTTP Status: %d)- %s: %s", resp.RawResponse.StatusCode, er.Code, er.Message))
}
