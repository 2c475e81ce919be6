package users

import (
	"github.com/zhiming817/learn2earn/workflow"
)

var engine *workflow.Engine

// Init wires the user handlers to the workflow engine. Called once from
// routes during startup.
func Init(e *workflow.Engine) {
	engine = e
}
