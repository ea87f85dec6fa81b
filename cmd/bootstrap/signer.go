package bootstrap

import (
	"fuelraffle/internal/pkg/config"
	"fuelraffle/internal/pkg/qrsign"

	"go.uber.org/fx"
)

var QRModule = fx.Module("qr",
	fx.Provide(
		NewQRVerifier,
	),
)

func NewQRVerifier(cfg config.Config) (*qrsign.Verifier, error) {
	return qrsign.NewVerifier(cfg.QR.DispenserPublicKey)
}
