package handlers

import (
	stderrors "errors"

	"github.com/gin-gonic/gin"

	deviceapp "watchfleet/internal/application/device"
	"watchfleet/internal/domain/device"
	"watchfleet/internal/domain/project"
	"watchfleet/internal/domain/setting"
	"watchfleet/internal/infrastructure/miwi"
	"watchfleet/internal/shared/errors"
	"watchfleet/internal/shared/utils"
)

// respondError translates domain and vendor failures into the API error
// taxonomy before handing off to the shared response writer.
func respondError(c *gin.Context, err error) {
	var missing *setting.MissingError
	var authErr *miwi.AuthError
	var fetchErr *deviceapp.FetchError
	var reqErr *miwi.RequestError

	switch {
	case stderrors.As(err, &missing):
		err = errors.NewValidationError(missing.Error())
	case stderrors.Is(err, device.ErrDeviceNotFound),
		stderrors.Is(err, project.ErrProjectNotFound),
		stderrors.Is(err, setting.ErrSettingNotFound):
		err = errors.NewNotFoundError(err.Error())
	case stderrors.As(err, &authErr),
		stderrors.As(err, &fetchErr),
		stderrors.As(err, &reqErr),
		miwi.IsTransportError(err):
		err = errors.NewUpstreamError(err.Error())
	}

	utils.ErrorResponseWithError(c, err)
}
