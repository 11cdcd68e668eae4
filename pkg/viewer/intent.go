package viewer

// Intent is a navigation request from the input layer.
type Intent int

const (
	None Intent = iota
	ScrollDown
	ScrollUp
	PageNext
	PagePrev
	Home
	End
	Exit
)

var intentNames = [...]string{
	None:       "None",
	ScrollDown: "ScrollDown",
	ScrollUp:   "ScrollUp",
	PageNext:   "PageNext",
	PagePrev:   "PagePrev",
	Home:       "Home",
	End:        "End",
	Exit:       "Exit",
}

func (i Intent) String() string {
	if i >= 0 && int(i) < len(intentNames) {
		return intentNames[i]
	}
	return "Intent(?)"
}

// IntentForKey maps the single-letter key script used by the headless
// renderer: j/k scroll, n or space and p page, g and G jump to the ends,
// q quits.
func IntentForKey(r rune) Intent {
	switch r {
	case 'j':
		return ScrollDown
	case 'k':
		return ScrollUp
	case 'n', ' ':
		return PageNext
	case 'p':
		return PagePrev
	case 'g':
		return Home
	case 'G':
		return End
	case 'q':
		return Exit
	}
	return None
}
