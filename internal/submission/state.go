package submission

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "idle"
	}
}

// State is the whole UI state of one form. Values are never mutated in place,
// the handler swaps one State for the next.
type State struct {
	Status       Status
	SubmissionId string
	Image        string // only set on success
	Message      string // only set on failure
}

// View is what the page renders.
type View struct {
	LoaderVisible bool
	ResultVisible bool
	ImageSrc      string
}

// View projects the state onto the page. A failed submission hides the result
// area, so an image from an earlier success is never left on screen.
func (s State) View() View {
	switch s.Status {
	case StatusLoading:
		return View{LoaderVisible: true}
	case StatusSuccess:
		return View{ResultVisible: true, ImageSrc: s.Image}
	default:
		return View{}
	}
}

func (s State) Terminal() bool {
	return s.Status == StatusSuccess || s.Status == StatusFailed
}
