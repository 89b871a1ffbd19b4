package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/scheduler"
)

type ScheduleController struct {
	scheduler ImportScheduler
}

func NewScheduleController(s ImportScheduler) *ScheduleController {
	return &ScheduleController{scheduler: s}
}

type ScheduleRunSummary struct {
	TotalRows   int `json:"total_rows"`
	Ingested    int `json:"ingested"`
	Rejected    int `json:"rejected"`
	ParseErrors int `json:"parse_errors"`
}

type ScheduleResponse struct {
	Active      bool                `json:"active"`
	Importing   bool                `json:"importing"`
	Schedule    string              `json:"schedule,omitempty"`
	Description string              `json:"description,omitempty"`
	Path        string              `json:"path,omitempty"`
	NextRun     *time.Time          `json:"next_run,omitempty"`
	LastRunAt   *time.Time          `json:"last_run_at,omitempty"`
	LastResult  *ScheduleRunSummary `json:"last_result,omitempty"`
	LastError   string              `json:"last_error,omitempty"`
}

// Status handles GET /api/import/schedule
func (sc *ScheduleController) Status(c *gin.Context) {
	st := sc.scheduler.Status()

	resp := ScheduleResponse{
		Active:      st.Active,
		Importing:   st.Importing,
		Schedule:    st.Schedule,
		Description: st.Description,
		Path:        st.Path,
		NextRun:     st.NextRun,
		LastRunAt:   st.LastRunAt,
	}
	if st.LastResult != nil {
		summary := st.LastResult.Summary()
		resp.LastResult = &ScheduleRunSummary{
			TotalRows:   summary.TotalRows,
			Ingested:    summary.Ingested,
			Rejected:    summary.Rejected,
			ParseErrors: len(st.LastResult.ParseErrors),
		}
	}
	if st.LastError != nil {
		resp.LastError = st.LastError.Error()
	}

	c.JSON(http.StatusOK, resp)
}

// RunNow handles POST /api/import/schedule/run
func (sc *ScheduleController) RunNow(c *gin.Context) {
	err := sc.scheduler.RunNow()
	switch {
	case errors.Is(err, scheduler.ErrNotConfigured):
		respondError(c, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, scheduler.ErrImportInProgress):
		respondError(c, http.StatusConflict, err.Error())
	case err != nil:
		respondInternalError(c, err, "scheduled import")
	default:
		respondAccepted(c, SuccessResponse{Message: "import started"})
	}
}
