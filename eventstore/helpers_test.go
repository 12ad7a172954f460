package eventstore_test

import "time"

func timeZero() time.Time {
	return time.Unix(0, 0).UTC()
}
