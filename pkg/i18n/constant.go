package i18n

var ALLOW_LANG = map[string]bool{
	"en":    true,
	"zh-CN": true,
}

const DEFAULT_LANG = "en"

const (
	ERROR_INTERNAL            = "error.internal"
	ERROR_NOT_FOUND           = "error.notfound"
	ERROR_INVALIDARGUMENT     = "error.invalidargument"
	ERROR_EXIST               = "error.exist"
	ERROR_TOO_MANY_REQUESTS   = "error.tooManyRequests"
	ERROR_UNSUPPORTED_FEATURE = "error.unsupported.feature"
	ERROR_AI_UNAVAILABLE      = "error.ai.unavailable"
	ERROR_FILE_UNSUPPORTED    = "error.file.type.unsupport"
	ERROR_FILE_EMPTY          = "error.file.empty"
	ERROR_INGEST_IN_PROGRESS  = "error.ingest.in_progress"
)
