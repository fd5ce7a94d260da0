package restapi

import (
	"net/http"

	"wlmonitor.org/internal/utils"
)

// requireIntParam reads a numeric path parameter and answers 400 itself when
// it is malformed.
func (api *RestAPI) requireIntParam(w http.ResponseWriter, r *http.Request, name string) (int, bool) {
	id, err := utils.ExtractIntIDFromParams(r, name)
	if err != nil {
		fieldErrors := map[string][]string{
			name: {err.Error()},
		}
		api.validationErrorResponse(w, r, fieldErrors)
		return 0, false
	}
	return id, true
}
