package dashboard

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/KaramelBytes/antioquia-dashboard/internal/analysis"
	"github.com/KaramelBytes/antioquia-dashboard/internal/dataset"
	"github.com/KaramelBytes/antioquia-dashboard/internal/stats"
	"github.com/KaramelBytes/antioquia-dashboard/internal/transform"
	"github.com/KaramelBytes/antioquia-dashboard/internal/validate"
	"github.com/go-chi/render"
	"github.com/spf13/cast"
)

// envelope wraps every successful /api/v1 payload with the filter it covers.
type envelope struct {
	Filter string `json:"filter"`
	Data   any    `json:"data"`
}

type errorResponse struct {
	Error      string `json:"error"`
	Computable *bool  `json:"computable,omitempty"`
	Statistic  string `json:"statistic,omitempty"`
}

// paramError marks a request the client can fix.
type paramError struct {
	param string
	err   error
}

func (e *paramError) Error() string { return fmt.Sprintf("invalid parameter %s: %v", e.param, e.err) }
func (e *paramError) Unwrap() error { return e.err }

func badParam(name string, err error) error {
	if err == nil {
		return nil
	}
	return &paramError{param: name, err: err}
}

var errNotDecimal = errors.New("not a base-10 integer")

// decimal checks v is a plain base-10 integer and strips leading zeros, so
// cast never reads it as an octal or prefixed literal.
func decimal(v string) (string, error) {
	v = strings.TrimSpace(v)
	sign := ""
	if v != "" && (v[0] == '-' || v[0] == '+') {
		sign, v = v[:1], v[1:]
	}
	if v == "" || strings.TrimLeft(v, "0123456789") != "" {
		return "", errNotDecimal
	}
	if v = strings.TrimLeft(v, "0"); v == "" {
		v = "0"
	}
	return sign + v, nil
}

func queryInt(q url.Values, name string, def int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	d, err := decimal(v)
	if err != nil {
		return 0, badParam(name, err)
	}
	n, err := cast.ToIntE(d)
	return n, badParam(name, err)
}

func queryInt64(q url.Values, name string, def int64) (int64, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	d, err := decimal(v)
	if err != nil {
		return 0, badParam(name, err)
	}
	n, err := cast.ToInt64E(d)
	return n, badParam(name, err)
}

func queryFloat(q url.Values, name string, def float64) (float64, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	f, err := cast.ToFloat64E(v)
	return f, badParam(name, err)
}

func queryBool(q url.Values, name string) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return false, nil
	}
	b, err := cast.ToBoolE(v)
	return b, badParam(name, err)
}

// criteria loads the base table and resolves the filter parameters against it.
func (s *Server) criteria(r *http.Request) (*dataset.Table, transform.Criteria, error) {
	base, err := s.src.Load()
	if err != nil {
		return nil, transform.Criteria{}, err
	}
	q := r.URL.Query()
	from, err := queryInt(q, "from", 0)
	if err != nil {
		return nil, transform.Criteria{}, err
	}
	to, err := queryInt(q, "to", 0)
	if err != nil {
		return nil, transform.Criteria{}, err
	}
	c, err := transform.BuildCriteria(base, from, to, q["region"], q["municipality"])
	if err != nil {
		return nil, transform.Criteria{}, badParam("filter", err)
	}
	return base, c, nil
}

// view returns the filtered, enriched table for the request.
func (s *Server) view(r *http.Request) (*dataset.Table, transform.Criteria, error) {
	base, c, err := s.criteria(r)
	if err != nil {
		return nil, c, err
	}
	v, err := transform.View(base, c)
	return v, c, err
}

func (s *Server) respond(w http.ResponseWriter, r *http.Request, c transform.Criteria, data any) {
	render.JSON(w, r, envelope{Filter: c.String(), Data: data})
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		pe  *paramError
		ide *dataset.InsufficientDataError
		pse *dataset.ParseError
		dse *dataset.DataSourceError
	)
	body := errorResponse{Error: err.Error()}
	status := http.StatusInternalServerError
	switch {
	case errors.As(err, &pe):
		status = http.StatusBadRequest
	case errors.As(err, &ide):
		status = http.StatusUnprocessableEntity
		computable := false
		body.Computable = &computable
		body.Statistic = ide.Statistic
		if s.metrics != nil {
			s.metrics.NotComputable.WithLabelValues(ide.Statistic).Inc()
		}
	case errors.As(err, &pse):
		status = http.StatusInternalServerError
	case errors.As(err, &dse):
		status = http.StatusServiceUnavailable
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "path", r.URL.Path, "status", status, "error", err)
	}
	render.Status(r, status)
	render.JSON(w, r, body)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	v, c, err := s.view(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, c, stats.Summarize(v))
}

func (s *Server) handleRegions(w http.ResponseWriter, r *http.Request) {
	v, c, err := s.view(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, c, transform.GroupByRegion(v))
}

func (s *Server) handleYears(w http.ResponseWriter, r *http.Request) {
	v, c, err := s.view(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, c, transform.GroupByYear(v))
}

func (s *Server) handleMunicipalities(w http.ResponseWriter, r *http.Request) {
	v, c, err := s.view(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, c, transform.GroupByMunicipality(v))
}

func (s *Server) handleRanking(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	by, err := stats.ParseMetric(q.Get("by"))
	if err != nil {
		s.writeError(w, r, badParam("by", err))
		return
	}
	group, err := stats.ParseGroupKey(q.Get("group"), stats.GroupMunicipality)
	if err != nil {
		s.writeError(w, r, badParam("group", err))
		return
	}
	top, err := queryInt(q, "top", s.opts.TopN)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	asc, err := queryBool(q, "asc")
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	maxPop, err := queryInt64(q, "max_population", 0)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if top < 0 || maxPop < 0 {
		s.writeError(w, r, badParam("top", errors.New("must not be negative")))
		return
	}

	v, c, err := s.view(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	ranked, err := stats.Rank(v, stats.RankOptions{By: by, Group: group, TopN: top, Ascending: asc, MaxPopulation: maxPop})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, c, ranked)
}

func (s *Server) handleGrowth(w http.ResponseWriter, r *http.Request) {
	group, err := stats.ParseGroupKey(r.URL.Query().Get("group"), stats.GroupDepartment)
	if err != nil {
		s.writeError(w, r, badParam("group", err))
		return
	}
	v, c, err := s.view(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	g, err := stats.GrowthRate(v, group, stats.TimeYear)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, c, g)
}

type riskResponse struct {
	Window *transform.YearRange `json:"window"`
	Scores []stats.RiskScore    `json:"scores"`
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	window, err := queryInt(q, "window", s.opts.RiskWindowYears)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if window <= 0 {
		s.writeError(w, r, badParam("window", errors.New("must be positive")))
		return
	}
	strategy := s.opts.Risk
	if strategy.Rate, err = queryFloat(q, "rate_weight", strategy.Rate); err != nil {
		s.writeError(w, r, err)
		return
	}
	if strategy.Growth, err = queryFloat(q, "growth_weight", strategy.Growth); err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := strategy.Validate(); err != nil {
		s.writeError(w, r, badParam("weights", err))
		return
	}

	v, c, err := s.view(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	scores, err := stats.RiskIndex(v, stats.RiskOptions{WindowYears: window, Strategy: strategy})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, c, riskResponse{Window: stats.RecentYears(v, window), Scores: scores})
}

func parseColumn(q url.Values, name string, def dataset.Column) (dataset.Column, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	col, err := dataset.ParseColumn(v)
	return col, badParam(name, err)
}

func (s *Server) handleCorrelation(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	a, err := parseColumn(q, "a", dataset.ColPopulation)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	b, err := parseColumn(q, "b", dataset.ColCases)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	method, err := stats.ParseMethod(q.Get("method"))
	if err != nil {
		s.writeError(w, r, badParam("method", err))
		return
	}
	v, c, err := s.view(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	res, err := stats.Correlate(v, a, b, method)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, c, res)
}

func (s *Server) handleDescribe(w http.ResponseWriter, r *http.Request) {
	col, err := parseColumn(r.URL.Query(), "column", dataset.ColCases)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	v, c, err := s.view(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	sum, err := stats.Describe(v, col)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, c, sum)
}

func (s *Server) handleDuplicates(w http.ResponseWriter, r *http.Request) {
	key, err := validate.ParseKey(r.URL.Query().Get("key"))
	if err != nil {
		s.writeError(w, r, badParam("key", err))
		return
	}
	v, c, err := s.view(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	groups, err := validate.FindDuplicates(v, key)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if groups == nil {
		groups = []validate.DuplicateGroup{}
	}
	s.respond(w, r, c, groups)
}

func (s *Server) handleQuality(w http.ResponseWriter, r *http.Request) {
	v, c, err := s.view(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	q, err := validate.Check(v, s.opts.Quality)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.respond(w, r, c, q)
}

func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	base, c, err := s.criteria(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	opt := analysis.DefaultOptions()
	opt.Name = s.opts.Name
	opt.Criteria = c
	if s.opts.TopN > 0 {
		opt.TopN = s.opts.TopN
	}
	opt.Risk = stats.RiskOptions{WindowYears: s.opts.RiskWindowYears, Strategy: s.opts.Risk}
	opt.Quality = s.opts.Quality
	rep, err := analysis.Build(base, opt)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	_, _ = w.Write([]byte(rep.Markdown()))
}
