package client

func (s Status) String() string {
	switch s {
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	default:
		return "idle"
	}
}

// Begin moves the view into loading and clears the previous message. Data is kept.
func (v *View[T]) Begin() {
	v.Status = StatusLoading
	v.Message = ""
}

func (v *View[T]) Succeed(data T, msg string) {
	if v.Status != StatusLoading {
		return
	}
	v.Status = StatusSuccess
	v.Data = data
	v.Message = msg
}

func (v *View[T]) Fail(msg string) {
	if v.Status != StatusLoading {
		return
	}
	v.Status = StatusError
	v.Message = msg
}

// Reject fails the view without a remote call having been made.
func (v *View[T]) Reject(msg string) {
	v.Begin()
	v.Fail(msg)
}
