package fetchlab

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
)

// WriteReport 以表格输出策略对比结果
func WriteReport(w io.Writer, results []ScenarioResult) error {
	table := tablewriter.NewWriter(w)
	table.Header("类型", "策略", "路径", "说明", "语句数", "订单", "订单项", "耗时", "结果")
	for _, res := range results {
		status := "OK"
		switch {
		case res.Err != nil:
			status = "ERR: " + res.Err.Error()
		case !res.Matches:
			status = "MISMATCH"
		}
		if err := table.Append(
			res.Type,
			res.Name,
			res.Path,
			res.Description,
			strconv.FormatInt(res.Queries, 10),
			strconv.Itoa(res.Orders),
			strconv.Itoa(res.Items),
			res.Duration.Round(time.Microsecond).String(),
			status,
		); err != nil {
			return fmt.Errorf("append report row: %w", err)
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	return nil
}

// Failed 是否存在失败或结果不一致的策略
func Failed(results []ScenarioResult) bool {
	for _, res := range results {
		if res.Err != nil || !res.Matches {
			return true
		}
	}
	return false
}
