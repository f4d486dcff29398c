package tui

type openErrMsg struct {
	err error
}
