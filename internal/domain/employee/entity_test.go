package employee

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ptr(s string) *string { return &s }

func TestEmployee_ReportingLine(t *testing.T) {
	e := Employee{ID: "e1", ReportingManagerID: ptr("m1"), Region: ptr("JKT")}
	assert.True(t, e.ReportsTo("m1"))
	assert.False(t, e.ReportsTo("m2"))
	assert.False(t, e.ReportsTo(""))
	assert.False(t, e.IsOwnManager())
	assert.Equal(t, "JKT", e.RegionCode())

	self := Employee{ID: "e2", ReportingManagerID: ptr("e2")}
	assert.True(t, self.IsOwnManager())
	assert.Equal(t, "", self.RegionCode())
}
