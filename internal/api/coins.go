package api

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/jenniferdsbaumgart/compath.ai-sub001/internal/notify"
)

func (s *Server) handleCoinPackages(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"packages": s.coins.Packages,
		"features": s.coins.Features,
	})
}

func (s *Server) handleCoins(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()

	user, err := s.auth.Me(ctx, userID)
	if err != nil {
		return s.storeError(c, err)
	}
	history, err := s.store.CoinHistory(ctx, userID, intQuery(c, "limit", 50))
	if err != nil {
		return s.storeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{
		"balance":      user.Coins,
		"transactions": history,
	})
}

type purchaseRequest struct {
	Package string `json:"package"`
}

// handlePurchaseCoins credits a coin package. Payment is simulated.
func (s *Server) handlePurchaseCoins(c echo.Context) error {
	userID, err := currentUser(c)
	if err != nil {
		return err
	}
	var req purchaseRequest
	if err := c.Bind(&req); err != nil {
		return errorJSON(c, http.StatusBadRequest, "Invalid request")
	}
	pkg, ok := s.coins.Package(strings.TrimSpace(req.Package))
	if !ok {
		return errorJSON(c, http.StatusBadRequest, "Unknown coin package")
	}

	ctx := c.Request().Context()
	balance, err := s.store.CreditCoins(ctx, userID, pkg.Coins, "purchase:"+pkg.ID)
	if err != nil {
		return s.storeError(c, err)
	}
	s.log.WithField("user_id", userID).WithField("package", pkg.ID).Info("coin package purchased")
	s.publish(ctx, userID, notify.EventCoinsUpdated, map[string]any{"balance": balance, "delta": pkg.Coins})

	return c.JSON(http.StatusOK, map[string]any{"balance": balance, "package": pkg})
}
