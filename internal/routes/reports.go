package routes

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/hlog"
	"gitlab.com/ranfdev/mascotas/internal/domain"
)

func (routes *Routes) ReportsRouter(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(routes.EnforceUser)
		r.Get("/reportar", routes.GetNewReport)
		r.Post("/reportar", routes.AppHandler(routes.PostReport))
		r.Get("/mis_reportes", routes.AppHandler(routes.GetMyReports))
		r.Post("/encontrado/{reportID}", routes.AppHandler(routes.PostFound))
		r.Get("/editar/{reportID}", routes.AppHandler(routes.GetEditReport))
		r.Post("/editar/{reportID}", routes.AppHandler(routes.PostEditReport))
	})
	r.Group(func(r chi.Router) {
		r.Use(routes.EnforceAdmin)
		r.Get("/admin", routes.AppHandler(routes.GetPending))
		r.Post("/aprobar/{reportID}", routes.AppHandler(routes.PostApprove))
		r.Post("/rechazar/{reportID}", routes.AppHandler(routes.PostReject))
	})
}

func reportID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "reportID"))
	if err != nil {
		return 0, &ErrNotFound{Cause: err}
	}
	return id, nil
}

// parseReportForm reads the report fields and the optional photo.
// The returned cleanup closes the uploaded file.
func (routes *Routes) parseReportForm(w http.ResponseWriter, r *http.Request) (domain.ReportFields, *domain.Upload, func(), error) {
	fields := domain.ReportFields{}
	cleanup := func() {}

	r.Body = http.MaxBytesReader(w, r.Body, routes.envConfig.MaxUploadBytes())
	err := r.ParseMultipartForm(1 << 20)
	var maxBytesErr *http.MaxBytesError
	if errors.As(err, &maxBytesErr) {
		return fields, nil, cleanup, &ErrBadRequest{Message: "La foto es demasiado grande", Cause: err}
	} else if errors.Is(err, http.ErrNotMultipart) {
		err = r.ParseForm()
	}
	if err != nil {
		return fields, nil, cleanup, &ErrBadRequest{Cause: err}
	}
	if err := routes.decoder.Decode(&fields, r.PostForm); err != nil {
		return fields, nil, cleanup, &ErrBadRequest{Cause: err}
	}

	if r.MultipartForm == nil {
		return fields, nil, cleanup, nil
	}
	file, header, err := r.FormFile("foto")
	if errors.Is(err, http.ErrMissingFile) {
		return fields, nil, cleanup, nil
	} else if err != nil {
		return fields, nil, cleanup, &ErrBadRequest{Cause: err}
	}
	if header.Filename == "" {
		file.Close()
		return fields, nil, cleanup, nil
	}
	photo := &domain.Upload{Filename: header.Filename, Content: file}
	return fields, photo, func() { file.Close() }, nil
}

func (routes *Routes) GetIndex(w http.ResponseWriter, r *http.Request) error {
	reports, err := routes.reports.ListApproved(r.Context())
	if err != nil {
		return err
	}
	data := routes.newPage(r)
	data.Views = reports
	routes.tmpls.RenderHTML(w, "index", data)
	return nil
}

func (routes *Routes) GetNewReport(w http.ResponseWriter, r *http.Request) {
	routes.tmpls.RenderHTML(w, "reportar", routes.newPage(r))
}

func (routes *Routes) PostReport(w http.ResponseWriter, r *http.Request) error {
	fields, photo, cleanup, err := routes.parseReportForm(w, r)
	defer cleanup()
	if err != nil {
		return err
	}

	data := routes.newPage(r)
	report, err := routes.reports.Submit(r.Context(), data.Session, fields, photo)
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		data.Form = fields
		data.Error = validationErr.Message
		routes.tmpls.Render(w, http.StatusBadRequest, "reportar", data)
		return nil
	} else if err != nil {
		return err
	}

	hlog.FromRequest(r).Info().Int("report_id", report.ID).Msg("Report submitted")
	data.Message = "Reporte guardado con éxito"
	routes.tmpls.RenderHTML(w, "reportar", data)
	return nil
}

func (routes *Routes) GetMyReports(w http.ResponseWriter, r *http.Request) error {
	data := routes.newPage(r)
	reports, err := routes.reports.ListOwn(r.Context(), *data.Session.UserID)
	if err != nil {
		return err
	}
	data.Reports = reports
	routes.tmpls.RenderHTML(w, "mis_reportes", data)
	return nil
}

func (routes *Routes) PostFound(w http.ResponseWriter, r *http.Request) error {
	id, err := reportID(r)
	if err != nil {
		return err
	}
	_, err = routes.reports.MarkFound(r.Context(), GetSession(r), id)
	if err != nil {
		return err
	}
	http.Redirect(w, r, "/mis_reportes", http.StatusSeeOther)
	return nil
}

func (routes *Routes) GetEditReport(w http.ResponseWriter, r *http.Request) error {
	id, err := reportID(r)
	if err != nil {
		return err
	}
	data := routes.newPage(r)
	report, err := routes.reports.GetOwned(r.Context(), data.Session, id)
	if err != nil {
		return err
	}
	data.Report = report
	data.Form = domain.ReportFields{
		Name:        report.Name,
		Description: report.Description,
		Location:    report.Location,
		Contact:     report.Contact,
	}
	routes.tmpls.RenderHTML(w, "editar_reporte", data)
	return nil
}

func (routes *Routes) PostEditReport(w http.ResponseWriter, r *http.Request) error {
	id, err := reportID(r)
	if err != nil {
		return err
	}
	fields, photo, cleanup, err := routes.parseReportForm(w, r)
	defer cleanup()
	if err != nil {
		return err
	}

	data := routes.newPage(r)
	_, err = routes.reports.Edit(r.Context(), data.Session, id, fields, photo)
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		report, getErr := routes.reports.GetOwned(r.Context(), data.Session, id)
		if getErr != nil {
			return getErr
		}
		data.Report = report
		data.Form = fields
		data.Error = validationErr.Message
		routes.tmpls.Render(w, http.StatusBadRequest, "editar_reporte", data)
		return nil
	} else if err != nil {
		return err
	}
	http.Redirect(w, r, "/mis_reportes", http.StatusSeeOther)
	return nil
}

func (routes *Routes) GetPending(w http.ResponseWriter, r *http.Request) error {
	data := routes.newPage(r)
	reports, err := routes.reports.ListPending(r.Context(), data.Session)
	if err != nil {
		return err
	}
	data.Views = reports
	routes.tmpls.RenderHTML(w, "admin", data)
	return nil
}

func (routes *Routes) PostApprove(w http.ResponseWriter, r *http.Request) error {
	id, err := reportID(r)
	if err != nil {
		return err
	}
	_, err = routes.reports.Approve(r.Context(), GetSession(r), id)
	if err != nil {
		return err
	}
	hlog.FromRequest(r).Info().Int("report_id", id).Msg("Report approved")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
	return nil
}

func (routes *Routes) PostReject(w http.ResponseWriter, r *http.Request) error {
	id, err := reportID(r)
	if err != nil {
		return err
	}
	_, err = routes.reports.Reject(r.Context(), GetSession(r), id, r.FormValue("motivo_rechazo"))
	if err != nil {
		return err
	}
	hlog.FromRequest(r).Info().Int("report_id", id).Msg("Report rejected")
	http.Redirect(w, r, "/admin", http.StatusSeeOther)
	return nil
}
