package instance

import "os"

// GetID returns the process instance identifier used to tag logs. Hosted
// dynos report DYNO; local runs report "local".
func GetID() string {
	if id := os.Getenv("STOREFRONT_INSTANCE_ID"); id != "" {
		return id
	}
	if id := os.Getenv("DYNO"); id != "" {
		return id
	}
	return "local"
}
