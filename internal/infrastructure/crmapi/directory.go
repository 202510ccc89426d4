package crmapi

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/crm/workbench/internal/domain/document"
)

// DirectoryClient implements document.DirectoryGateway against the CRM
// backend. A lookup miss is reported as a nil company, not an error.
type DirectoryClient struct {
	c *Client
}

func NewDirectoryClient(c *Client) *DirectoryClient {
	return &DirectoryClient{c: c}
}

func (d *DirectoryClient) FindCompanyByName(ctx context.Context, name string) (*document.Company, error) {
	var company document.Company
	path := "/companies/lookup?name=" + url.QueryEscape(name)
	if err := d.c.doJSON(ctx, http.MethodGet, path, nil, &company); err != nil {
		var remote *document.RemoteError
		if errors.As(err, &remote) && remote.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &company, nil
}
