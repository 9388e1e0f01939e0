// Package codes formats the human-readable identifiers assigned to
// projects and tasks.
package codes

import (
	"fmt"
	"strings"
	"time"
)

// Allocation namespaces. Each namespace has its own sequence.
const (
	NamespaceProjects      = "project"
	NamespaceTopLevelTasks = "task"
)

// ChildNamespace returns the sequence namespace for children of parentID.
func ChildNamespace(parentID string) string {
	return NamespaceTopLevelTasks + ":" + parentID
}

// Project returns P-### for the nth project.
func Project(n int) string {
	return fmt.Sprintf("P-%03d", n)
}

// TopLevelTask returns T-### for the nth top-level task.
func TopLevelTask(n int) string {
	return fmt.Sprintf("T-%03d", n)
}

// ChildTask returns {parent}.{k} for the kth child of parentCode.
func ChildTask(parentCode string, k int) string {
	return fmt.Sprintf("%s.%d", parentCode, k)
}

// RoutineTask returns BAU-{templateID}-{YYYYMMDD}. The code is also the
// de-duplication key for recurrence instances.
func RoutineTask(templateID int64, d time.Time) string {
	return fmt.Sprintf("BAU-%d-%s", templateID, d.Format("20060102"))
}

// IsRoutine reports whether code was produced by RoutineTask.
func IsRoutine(code string) bool {
	return strings.HasPrefix(code, "BAU-")
}
