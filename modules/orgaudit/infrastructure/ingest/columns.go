package ingest

import "strings"

// columns maps each employee field to its position in a row.
type columns struct {
	id, firstName, lastName, salary, managerID int
	// width is the widest row accepted; 0 means any.
	width int
}

var positional = columns{id: 0, firstName: 1, lastName: 2, salary: 3, managerID: 4, width: 5}

var headerAliases = map[string]string{
	"id":         "id",
	"employeeid": "id",
	"firstname":  "first_name",
	"lastname":   "last_name",
	"surname":    "last_name",
	"salary":     "salary",
	"managerid":  "manager_id",
	"manager":    "manager_id",
}

func headerKey(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(s)
}

// resolveColumns uses the header names when they cover every mandatory
// field, and the id,firstName,lastName,salary,managerId order otherwise.
func resolveColumns(header []string) columns {
	idx := map[string]int{}
	for i, h := range header {
		field, ok := headerAliases[headerKey(h)]
		if !ok {
			continue
		}
		if _, dup := idx[field]; !dup {
			idx[field] = i
		}
	}
	for _, req := range []string{"id", "first_name", "last_name", "salary"} {
		if _, ok := idx[req]; !ok {
			return positional
		}
	}
	c := columns{
		id:        idx["id"],
		firstName: idx["first_name"],
		lastName:  idx["last_name"],
		salary:    idx["salary"],
		managerID: -1,
		width:     len(header),
	}
	if i, ok := idx["manager_id"]; ok {
		c.managerID = i
	}
	return c
}

func (c columns) minWidth() int {
	m := c.id
	for _, i := range []int{c.firstName, c.lastName, c.salary} {
		if i > m {
			m = i
		}
	}
	return m + 1
}

func (c columns) get(rec []string, i int) string {
	if i < 0 || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}
