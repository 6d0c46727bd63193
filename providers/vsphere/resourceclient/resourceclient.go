package resourceclient

import (
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/vmware/govmomi"
	"github.com/vmware/govmomi/find"
)

const DefaultAPITimeout = time.Minute * 5

// number of concurrent property fetches per collect call
const defaultCollectWorkers = 8

func New(client *govmomi.Client) *Client {
	return &Client{
		Client: client,
	}
}

type Client struct {
	Client *govmomi.Client
}

func (c *Client) AboutInfo() (map[string]interface{}, error) {
	return PropertiesToDict(c.Client.ServiceContent.About)
}

// PropertiesToDict converts a managed object properties struct into a
// plain dict
func PropertiesToDict(p interface{}) (map[string]interface{}, error) {
	data, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}

	dict := map[string]interface{}{}
	err = json.Unmarshal(data, &dict)
	if err != nil {
		return nil, err
	}
	return dict, nil
}

// IsNotFound returns a boolean indicating whether the error is a not found error.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	var e *find.NotFoundError
	return errors.As(err, &e)
}
