package handler

import (
	"github.com/gin-gonic/gin"

	"tasknest/model"
	"tasknest/utils"
)

// respondError maps the error taxonomy onto HTTP statuses.
func respondError(c *gin.Context, err error) {
	switch {
	case model.IsValidation(err):
		utils.TrackError("validation")
		utils.BadRequest(c, err.Error())
	case model.IsNotFound(err):
		utils.TrackError("not_found")
		utils.NotFound(c, err.Error())
	case model.IsNetwork(err), model.IsOffline(err):
		utils.TrackError("network")
		utils.ServiceUnavailable(c, err.Error())
	default:
		utils.TrackError("internal")
		utils.InternalError(c, err.Error())
	}
}
