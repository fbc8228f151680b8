// Package cachekey 报表缓存键的唯一出处，写侧失效和读侧加载共用
package cachekey

func AssignedDates(agentID string) string { return "educall:assigned_dates:" + agentID }
