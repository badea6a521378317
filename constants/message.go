package constants

const (
	ERROR_INTERNAL_ERROR       = "Internal server error"
	ERROR_PARSE_DATA_TO_LOCALS = "Failed to read request data"
	ERROR_CREATE               = "Failed to create record"
	ERROR_EDIT                 = "Failed to update record"
	DATA_INPUT_IS_NOT_NUMBER   = "Parameter must be a number"
	INVALID_INPUT              = "Invalid input"

	MISSING_LOGIN_INPUT   = "Email and password are required"
	INVALID_EMAIL         = "Email is not registered"
	INVALID_PASSWORD      = "Incorrect password"
	ACCOUNT_NOT_ACTIVE    = "Account is disabled"
	EMAIL_EXISTS          = "Email is already registered"
	CAN_NOT_HASH_PASSWORD = "Could not hash password"
	MISSING_TOKEN         = "Missing token"
	INVALID_TOKEN         = "Invalid token"
	FORBIDDEN             = "You do not have permission to access this resource"

	MACHINE_NOT_FOUND = "Machine not found"
	TRIP_ID_REQUIRED  = "tripId query parameter is required"
	REVIEW_EXISTS     = "You have already reviewed this trip"
)
