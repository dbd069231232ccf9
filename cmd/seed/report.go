package main

import (
	"context"
	"fmt"
	"io"
	"strconv"

	"github.com/jpashop-api/internal/provider"
	"github.com/jpashop-api/internal/repository"

	"github.com/olekukonko/tablewriter"
)

// writeOverview 依次输出会员、商品库存与订单三张表
func writeOverview(ctx context.Context, w io.Writer, c *provider.Container, search repository.OrderSearch) error {
	members, err := c.MemberService.FindMembers(ctx)
	if err != nil {
		return fmt.Errorf("find members: %w", err)
	}
	memberNames := make(map[uint]string, len(members))
	table := tablewriter.NewWriter(w)
	table.Header("会员", "名称", "城市", "街道", "邮编")
	for _, m := range members {
		memberNames[m.ID] = m.Name
		if err := table.Append(strconv.FormatUint(uint64(m.ID), 10), m.Name, m.Address.City, m.Address.Street, m.Address.Zipcode); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render members: %w", err)
	}

	items, err := c.ItemService.FindItems(ctx)
	if err != nil {
		return fmt.Errorf("find items: %w", err)
	}
	table = tablewriter.NewWriter(w)
	table.Header("商品", "名称", "单价", "库存")
	for _, it := range items {
		if err := table.Append(strconv.FormatUint(uint64(it.ID), 10), it.Name, it.Price.String(), strconv.Itoa(it.StockQuantity)); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render items: %w", err)
	}

	orders, err := c.OrderService.FindOrders(ctx, search)
	if err != nil {
		return fmt.Errorf("find orders: %w", err)
	}
	table = tablewriter.NewWriter(w)
	table.Header("订单", "会员", "状态", "下单时间")
	for _, o := range orders {
		if err := table.Append(strconv.FormatUint(uint64(o.ID), 10), memberNames[o.MemberID], o.Status, o.OrderDate.Format("2006-01-02 15:04:05")); err != nil {
			return err
		}
	}
	if err := table.Render(); err != nil {
		return fmt.Errorf("render orders: %w", err)
	}
	return nil
}
