package types

type QueryTotalBidRequest struct {
	Address string `json:"address"`
}

type QueryTotalBidResponse struct {
	Value Coin `json:"value"`
}

type QueryHighestBidRequest struct{}

type QueryHighestBidResponse struct {
	Address string `json:"address"`
	Value   Coin   `json:"value"`
}

type QueryWinnerRequest struct{}

// QueryWinnerResponse carries the empty string while bidding is open.
type QueryWinnerResponse struct {
	Address string `json:"address"`
}

type QueryContractInfoRequest struct{}

type QueryContractInfoResponse struct {
	ContractInfo
}
