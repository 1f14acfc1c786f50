package constants

import "time"

const (
	// DEFAULT_CLIENT_USER_AGENT is the User-Agent header sent when fetching remote knowledge bases.
	DEFAULT_CLIENT_USER_AGENT = "DebugKB"
	// DEFAULT_FETCH_TIMEOUT is the default timeout for downloading a remote knowledge base.
	DEFAULT_FETCH_TIMEOUT = 30 * time.Second
	// VersionFilename is the name of the file that contains the debugkb version.
	VersionFilename = "version.yaml"
	// DEBUGKB_ROOT_SPAN_NAME is the name of the root span for the tracing system.
	DEBUGKB_ROOT_SPAN_NAME = "debugkb"
	// LIB_TRACER_NAME is the name of debugkb's tracer.
	LIB_TRACER_NAME = "github.com/debugkb/debugkb"
	// EXIT_CODE_CATCH_ALL is the exit code for all non-specific errors.
	EXIT_CODE_CATCH_ALL = 1
	// EXIT_CODE_KB_ISSUES is the exit code when a knowledge base fails to load or lint.
	EXIT_CODE_KB_ISSUES = 2
	// MESSAGE_TEXT_PADDING is the amount of padding for the interactive step browser.
	MESSAGE_TEXT_PADDING = 4
	// MESSAGE_TEXT_LINES_MARGIN_TO_BOTTOM is the margin to the bottom of the screen in the interactive step browser.
	MESSAGE_TEXT_LINES_MARGIN_TO_BOTTOM = 4
)
