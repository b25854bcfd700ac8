package web

import (
	"database/sql"
	"net/http"

	"github.com/hpungsan/gauge/internal/config"
	"github.com/hpungsan/gauge/internal/convert"
	"github.com/hpungsan/gauge/internal/errors"
	"github.com/hpungsan/gauge/internal/format"
	"github.com/hpungsan/gauge/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	db       *sql.DB
	cfg      *config.Config
	renderer *Renderer
}

// HandleIndex handles GET /: redirect to the default calculator.
func (h *Handlers) HandleIndex(w http.ResponseWriter, r *http.Request) {
	domain := string(convert.DomainLength)
	if d, err := ops.ValidateDomain(h.cfg.DefaultDomain); err == nil {
		domain = string(d)
	}
	http.Redirect(w, r, "/"+domain, http.StatusFound)
}

// HandleCalculator handles GET /{domain}: the calculator page with its history.
func (h *Handlers) HandleCalculator(w http.ResponseWriter, r *http.Request) {
	data, err := h.calculatorData(r, r.PathValue("domain"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	hist, err := ops.History(r.Context(), h.db, ops.HistoryInput{Domain: string(data.Domain)})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	data.History = hist.Entries

	h.renderer.renderPage(w, r, "calculator", data)
}

// HandleCalculate handles POST /{domain}/calculate: evaluate the "expression" form field.
func (h *Handlers) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	data, err := h.calculatorData(r, r.PathValue("domain"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}
	data.Expression = r.FormValue("expression")
	data.Explain = r.FormValue("explain") == "true" || r.FormValue("explain") == "on"

	out, err := ops.Calculate(r.Context(), h.db, ops.CalculateInput{
		Domain:     string(data.Domain),
		Expression: data.Expression,
		Explain:    data.Explain,
	})
	if err != nil {
		if isHTMX(r) || wantsJSON(r) {
			h.renderer.renderError(w, r, err)
			return
		}
		// Full page: show the message next to the untouched form and history.
		calcErr := errors.As(err)
		if calcErr.Code == errors.ErrInternal {
			h.renderer.renderError(w, r, err)
			return
		}
		data.Error = calcErr.Message
		if hist, herr := ops.History(r.Context(), h.db, ops.HistoryInput{Domain: string(data.Domain)}); herr == nil {
			data.History = hist.Entries
		}
		h.renderer.renderPageStatus(w, r, calcErr.Status, "calculator", data)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}
	// Blank input leaves the shown result in place.
	if out.NoOp && isHTMX(r) {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	data.Result = out.Result
	data.Rows = breakdownRows(data.Domain, out.Result)
	data.Steps = out.Steps
	data.History = out.History

	if isHTMX(r) {
		h.renderer.renderBlock(w, http.StatusOK, "calculator", "output", data)
		return
	}
	h.renderer.renderPage(w, r, "calculator", data)
}

// HandleClearHistory handles POST /{domain}/history/clear.
func (h *Handlers) HandleClearHistory(w http.ResponseWriter, r *http.Request) {
	data, err := h.calculatorData(r, r.PathValue("domain"))
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	result, err := ops.ClearHistory(r.Context(), h.db, ops.HistoryInput{Domain: string(data.Domain)})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, result)
		return
	}

	if isHTMX(r) {
		h.renderer.renderBlock(w, http.StatusOK, "calculator", "history", data)
		return
	}

	http.Redirect(w, r, "/"+string(data.Domain), http.StatusSeeOther)
}

// HandleHelp handles GET /help: the expression syntax reference.
func (h *Handlers) HandleHelp(w http.ResponseWriter, r *http.Request) {
	h.renderer.renderPage(w, r, "help", HelpPageData{
		PageData:     h.renderer.pageData("Help", "help"),
		RenderedHTML: renderMarkdown(helpMarkdown),
	})
}

// calculatorData validates the domain path value and fills the page skeleton.
func (h *Handlers) calculatorData(r *http.Request, raw string) (CalculatorPageData, error) {
	domain, err := ops.ValidateDomain(raw)
	if err != nil {
		return CalculatorPageData{}, errors.NewNotFound(r.URL.Path)
	}
	conv, err := convert.For(domain)
	if err != nil {
		return CalculatorPageData{}, err
	}

	return CalculatorPageData{
		PageData: h.renderer.pageData(title(domain), string(domain)),
		Domain:   domain,
		Symbols:  conv.Table().Symbols(),
	}, nil
}

// breakdownRows lists the display strings of a result in table order,
// followed by the compound rendering.
func breakdownRows(domain convert.Domain, res *convert.Result) []Row {
	if res == nil {
		return nil
	}
	conv, err := convert.For(domain)
	if err != nil {
		return nil
	}

	names := conv.Targets()
	rows := make([]Row, 0, len(names)+2)
	for _, name := range names {
		rows = append(rows, Row{Unit: name, Value: res.Display[name]})
	}
	if domain == convert.DomainLength {
		rows = append(rows, Row{Unit: "fractional inches", Value: res.Display["inches_fraction"]})
		rows = append(rows, Row{Unit: "feet and inches", Value: res.Display["feet_inches"]})
	} else {
		rows = append(rows, Row{Unit: "pounds and ounces", Value: res.Display["pounds_ounces"]})
	}
	rows = append(rows, Row{Unit: res.BaseUnit + " (base)", Value: format.Fixed("", res.Base)})
	return rows
}
