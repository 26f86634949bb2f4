package match

// Resolve 对每个主候选做上下文约束检查，返回所有被接受的候选
//
// 对每个主候选按顺序扫描各上下文组，组内取第一个满足偏移容差的
// 候选（每组至多贡献一个，先到先得，不取最高分）。
//
// requireAll 为 true 时要求每个上下文组都有满足者；为 false 时
// 任一组满足即可。没有上下文组或没有主候选时返回空结果。
//
// 纯函数：不修改输入，相同输入产生相同输出。
func Resolve(primaries []Candidate, groups []ContextGroup, requireAll bool) []Match {
	if len(primaries) == 0 || len(groups) == 0 {
		return nil
	}

	var results []Match
	for _, primary := range primaries {
		if m, ok := resolveOne(primary, groups, requireAll); ok {
			results = append(results, m)
		}
	}
	return results
}

// ResolveFirst 返回第一个满足上下文约束的主候选
//
// 历史上单结果调用方只取首个可接受的候选，此模式在找到后立即
// 停止扫描后续主候选。未找到时第二个返回值为 false。
func ResolveFirst(primaries []Candidate, groups []ContextGroup, requireAll bool) (Match, bool) {
	if len(primaries) == 0 || len(groups) == 0 {
		return Match{}, false
	}

	for _, primary := range primaries {
		if m, ok := resolveOne(primary, groups, requireAll); ok {
			return m, true
		}
	}
	return Match{}, false
}

// resolveOne 检查单个主候选的上下文约束
func resolveOne(primary Candidate, groups []ContextGroup, requireAll bool) (Match, bool) {
	var satisfied []Candidate
	for _, group := range groups {
		if ctx, ok := firstWithinOffset(primary, group); ok {
			satisfied = append(satisfied, ctx)
		}
	}

	if requireAll {
		if len(satisfied) != len(groups) {
			return Match{}, false
		}
	} else if len(satisfied) == 0 {
		return Match{}, false
	}

	return Match{Candidate: primary, ContextMatches: satisfied}, true
}

// firstWithinOffset 按顺序取组内第一个满足偏移容差的候选
func firstWithinOffset(primary Candidate, group ContextGroup) (Candidate, bool) {
	for _, ctx := range group.Candidates {
		if withinOffset(ctx.Position, primary.Position, group.Offset) {
			return ctx, true
		}
	}
	return Candidate{}, false
}
