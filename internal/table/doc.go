// Package table provides parsing, merging and CSV output for the tabular
// datasets returned by the EPI service.
//
// Datasets downloaded for different parameter combinations do not always
// share a column set, so Merge takes the union of columns and leaves cells a
// table never had absent:
//
//	a, _ := table.Parse("x,y\n1,2\n")
//	b, _ := table.Parse("y,z\n3,4\n")
//	m, _ := table.Merge([]*table.Table{a, b})
//	// m.Columns = [x y z], 2 rows, missing cells written as empty strings
//	m.WriteCSV("out.csv")
package table
