package pagespeed

// Result is the subset of a runPagespeed response the sampler consumes.
// AnalysisUTCTimestamp identifies the underlying measurement run and is
// only ever compared for equality.
type Result struct {
	AnalysisUTCTimestamp string            `json:"analysisUTCTimestamp"`
	LighthouseResult     *LighthouseResult `json:"lighthouseResult"`
}

// LighthouseResult is the nested lighthouse report within a response.
type LighthouseResult struct {
	Categories Categories       `json:"categories"`
	Audits     map[string]Audit `json:"audits"`
}

// Categories groups the report's scored categories. Only performance
// is consumed.
type Categories struct {
	Performance *Category `json:"performance"`
}

// Category carries a 0.0-1.0 score and the references to the audits
// that contributed to it.
type Category struct {
	Score     *float64   `json:"score"`
	AuditRefs []AuditRef `json:"auditRefs"`
}

// AuditRef links a category to an audit entry and tags it with a
// display group.
type AuditRef struct {
	ID    string `json:"id"`
	Group string `json:"group"`
}

// Audit is a single audit entry keyed by id in the report.
type Audit struct {
	Title        string `json:"title"`
	DisplayValue string `json:"displayValue"`
}
