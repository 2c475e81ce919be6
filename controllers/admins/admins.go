package admins

import (
	"github.com/zhiming817/learn2earn/settlement"
	"github.com/zhiming817/learn2earn/workflow"
)

var (
	engine      *workflow.Engine
	coordinator *settlement.Coordinator
)

// Init wires the admin handlers to the workflow engine and the settlement
// coordinator. Called once from routes during startup.
func Init(e *workflow.Engine, c *settlement.Coordinator) {
	engine = e
	coordinator = c
}
