package tui

// pageLoadedMsg reports that a transactions fetch finished. The rows
// themselves are read from the hook, which keeps only the latest fetch.
type pageLoadedMsg struct {
	err error
}

type accountsLoadedMsg struct {
	err error
}
