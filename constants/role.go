package constants

const (
	ROLE_ADMIN  = "ADMIN"
	ROLE_VENDOR = "VENDOR"
	ROLE_USER   = "USER"
)
