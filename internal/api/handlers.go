package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/plan"
	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/platform"
	"github.com/AbsoluteWallet/abw-multichain-sdk/internal/util"
)

// transferBody is either a grouped request or a list of per-destination
// wallet transfer items sharing a source and coin.
type transferBody struct {
	plan.TransferRequest
	Items []plan.TransferItem `json:"items,omitempty"`
}

func (b transferBody) request() (plan.TransferRequest, error) {
	if len(b.Items) == 0 {
		return b.TransferRequest, nil
	}

	req, err := plan.GroupTransfers(b.Items)
	if err != nil {
		return plan.TransferRequest{}, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return req, nil
}

type planResponse struct {
	*plan.TransferPlan
	Operations []plan.Operation `json:"operations"`
}

type signedRequest struct {
	transferBody
	SecretKey string `json:"secretKey"`
}

type signResponse struct {
	*plan.SignedTx
	Broadcast json.RawMessage `json:"broadcast,omitempty"`
}

type sendResponse struct {
	Chain  string `json:"chain"`
	Digest string `json:"digest"`
}

type balanceResponse struct {
	Chain    string `json:"chain"`
	Address  string `json:"address"`
	CoinType string `json:"coinType,omitempty"`
	Balance  string `json:"balance"`
	Amount   string `json:"amount"`
	Decimals uint8  `json:"decimals"`
}

type addressResponse struct {
	Chain   string `json:"chain"`
	Address string `json:"address"`
	Valid   bool   `json:"valid"`
}

func (s *Server) platform(c echo.Context) (platform.Platform, error) {
	return s.registry.Get(c.Param("chain"))
}

func (s *Server) health(c echo.Context) error {
	return c.NoContent(http.StatusOK)
}

func (s *Server) chains(c echo.Context) error {
	return c.JSON(http.StatusOK, s.registry.Chains())
}

func (s *Server) buildPlan(c echo.Context) error {
	p, err := s.platform(c)
	if err != nil {
		return err
	}

	var body transferBody
	err = c.Bind(&body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	req, err := body.request()
	if err != nil {
		return err
	}

	res, err := p.BuildPlan(c.Request().Context(), req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, planResponse{
		TransferPlan: res,
		Operations:   res.Operations(),
	})
}

// bindSigned decodes a request that carries a secret key and checks the
// source address.
func (s *Server) bindSigned(c echo.Context, p platform.Platform) (plan.TransferRequest, string, error) {
	var body signedRequest
	err := c.Bind(&body)
	if err != nil {
		return plan.TransferRequest{}, "", echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if body.SecretKey == "" {
		return plan.TransferRequest{}, "", echo.NewHTTPError(http.StatusBadRequest, "secretKey is required")
	}

	req, err := body.request()
	if err != nil {
		return plan.TransferRequest{}, "", err
	}
	if !p.CheckAddress(req.SourceAddress) {
		return plan.TransferRequest{}, "", echo.NewHTTPError(http.StatusBadRequest, "invalid source address")
	}
	return req, body.SecretKey, nil
}

func (s *Server) sign(c echo.Context) error {
	p, err := s.platform(c)
	if err != nil {
		return err
	}

	broadcast := c.QueryParam("broadcast") == "true"
	if broadcast && s.broadcaster == nil {
		return echo.NewHTTPError(http.StatusServiceUnavailable, "broadcast is not configured")
	}

	req, secret, err := s.bindSigned(c, p)
	if err != nil {
		return err
	}

	signed, err := p.Sign(c.Request().Context(), req, secret)
	if err != nil {
		return err
	}

	res := signResponse{SignedTx: signed}
	if broadcast {
		payload, err := signed.Payload()
		if err != nil {
			return err
		}
		res.Broadcast, err = s.broadcaster.BroadcastTransaction(c.Request().Context(), p.Chain(), payload)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadGateway, "broadcast failed").SetInternal(err)
		}
		s.logger.WithField("chain", p.Chain()).Info("signed transfer broadcast")
	}

	return c.JSON(http.StatusOK, res)
}

func (s *Server) send(c echo.Context) error {
	p, err := s.platform(c)
	if err != nil {
		return err
	}

	req, secret, err := s.bindSigned(c, p)
	if err != nil {
		return err
	}

	digest, err := p.Send(c.Request().Context(), req, secret)
	if err != nil {
		return err
	}

	s.logger.WithField("chain", p.Chain()).Infof("transfer submitted: %s", digest)

	return c.JSON(http.StatusOK, sendResponse{
		Chain:  p.Chain(),
		Digest: digest,
	})
}

func (s *Server) balance(c echo.Context) error {
	p, err := s.platform(c)
	if err != nil {
		return err
	}

	address := c.Param("address")
	if !p.CheckAddress(address) {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid address")
	}
	coinType := c.QueryParam("coinType")
	ctx := c.Request().Context()

	balance, err := p.Balance(ctx, address, coinType)
	if err != nil {
		return err
	}
	decimals, err := p.Decimals(ctx, coinType)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, balanceResponse{
		Chain:    p.Chain(),
		Address:  address,
		CoinType: coinType,
		Balance:  strconv.FormatUint(balance, 10),
		Amount:   util.FromBaseUnits(balance, decimals),
		Decimals: decimals,
	})
}

func (s *Server) checkAddress(c echo.Context) error {
	p, err := s.platform(c)
	if err != nil {
		return err
	}

	address := c.Param("address")
	return c.JSON(http.StatusOK, addressResponse{
		Chain:   p.Chain(),
		Address: address,
		Valid:   p.CheckAddress(address),
	})
}
