package presenter

import (
	"github.com/nao1215/phishguard/internal/model"
)

// ViewKind identifies which popup variant is shown.
type ViewKind string

const (
	// ViewWarning is shown for a phishing verdict.
	ViewWarning ViewKind = "warning"
	// ViewSafe is shown for a legitimate verdict.
	ViewSafe ViewKind = "safe"
	// ViewError is shown when the classifier could not answer.
	ViewError ViewKind = "error"
	// ViewNoData is shown when the tab has not been assessed.
	ViewNoData ViewKind = "no-data"
)

// PopupView is the content of the extension popup.
type PopupView struct {
	Kind    ViewKind `json:"kind"`
	Icon    string   `json:"icon"`
	Message string   `json:"message"`
	// Class is the CSS class the extension applies to the status element.
	Class string `json:"class"`
	URL   string `json:"url,omitempty"`
}

var views = map[ViewKind]PopupView{
	ViewWarning: {Kind: ViewWarning, Icon: "⚠️", Message: "Warning: Phishing Site!", Class: "warning"},
	ViewSafe:    {Kind: ViewSafe, Icon: "✅", Message: "This site looks safe.", Class: "safe"},
	ViewError:   {Kind: ViewError, Icon: "❓", Message: "Could not get a prediction.", Class: "neutral"},
	ViewNoData:  {Kind: ViewNoData, Icon: "🤔", Message: "No analysis data for this page.", Class: "neutral"},
}

// PopupFor renders the popup for a record. ok is false when the store has
// no record for the tab.
func PopupFor(rec model.URLRecord, ok bool) PopupView {
	if !ok {
		return views[ViewNoData]
	}

	var v PopupView
	switch rec.Verdict {
	case model.VerdictPhishing:
		v = views[ViewWarning]
	case model.VerdictLegitimate:
		v = views[ViewSafe]
	case model.VerdictError:
		v = views[ViewError]
	default:
		return views[ViewNoData]
	}
	v.URL = rec.URL
	return v
}

// PopupForAssessment renders the popup for a freshly computed assessment.
func PopupForAssessment(a *model.Assessment) PopupView {
	if a == nil {
		return views[ViewNoData]
	}
	return PopupFor(model.URLRecord{URL: a.URL, Verdict: a.Verdict}, true)
}

// NotificationTitle and NotificationMessage are the texts of the
// desktop notification pushed on a phishing verdict.
const (
	NotificationTitle   = "⚠️ Phishing Alert"
	NotificationMessage = "This site may be unsafe!"
)
