package mpack

import "github.com/op/go-logging"

// log carries errors that cannot be returned to the caller, such as a close
// failure that follows an already reported flush failure, and owned file
// lifecycle at DEBUG. Nothing is logged per item.
//
// The module starts at WARNING; applications that want the DEBUG lines call
// logging.SetLevel(logging.DEBUG, "mpack").
var log = logging.MustGetLogger("mpack")

func init() {
	logging.SetLevel(logging.WARNING, "mpack")
}
