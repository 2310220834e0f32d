package table

// Clean 删除任意一列(包括元数据列)存在缺失值的行
// 不修改输入，返回新的Table；结果可以为0行
func Clean(t *Table) *Table {
	keep := make([]int, 0, t.Nrow())
	ncol := t.Ncol()
	for r := 0; r < t.Nrow(); r++ {
		complete := true
		for c := 0; c < ncol; c++ {
			if t.IsMissing(r, c) {
				complete = false
				break
			}
		}
		if complete {
			keep = append(keep, r)
		}
	}
	return t.subset(keep)
}
