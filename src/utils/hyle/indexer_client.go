package hyle

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/hyle-org/buy-my-tweet/src/utils/config"

	"github.com/go-resty/resty/v2"
)

// Client of the Hyle indexer REST API
type IndexerClient struct {
	*BaseClient
}

func NewIndexerClient(config *config.Hyle) (self *IndexerClient) {
	self = new(IndexerClient)
	self.BaseClient = newBaseClient(config, config.IndexerUrl, "hyle-indexer-client")
	return
}

func (self *IndexerClient) ListContracts(ctx context.Context) (out []ContractDb, err error) {
	list, err := get[[]ContractDb](ctx, self.client, "/v1/indexer/contracts")
	if err != nil {
		return
	}
	out = *list
	return
}

func (self *IndexerClient) GetIndexerContract(ctx context.Context, name ContractName) (out *ContractDb, err error) {
	return get[ContractDb](ctx, self.client, "/v1/indexer/contract/"+url.PathEscape(string(name)))
}

// Raw GET on any indexer route below v1/
func (self *IndexerClient) QueryIndexer(ctx context.Context, route string) (resp *resty.Response, err error) {
	return self.client.R().
		SetContext(ctx).
		Get("/v1/" + strings.TrimPrefix(route, "/"))
}

func (self *IndexerClient) GetNodeInfo(ctx context.Context) (out *NodeInfo, err error) {
	return get[NodeInfo](ctx, self.client, "/v1/info")
}

// Fetches the current state digest of a contract and converts it
func FetchCurrentState[State any](ctx context.Context, client *IndexerClient, name ContractName, converter func(StateDigest) (State, error)) (out State, err error) {
	contract, err := client.GetIndexerContract(ctx, name)
	if err != nil {
		return
	}

	out, err = converter(contract.StateDigest)
	if err != nil {
		err = fmt.Errorf("%w: %s", ErrStateConversion, err.Error())
		return
	}
	return
}
