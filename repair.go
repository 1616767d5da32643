package pagez

// RepairEngine 乱码修复引擎接口
type RepairEngine interface {
	// Repair 修复乱码文本
	// chainName指定转换链时只应用该链；为空时按声明顺序尝试全部链，
	// 优先返回可精确还原的结果，没有时返回第一个稳定的部分修复
	Repair(text, chainName string) RepairResult

	// ChainNames 返回全部转换链名称（声明顺序）
	ChainNames() []string
}

// defaultRepairEngine 默认乱码修复引擎实现
// 转换链在构造时生成一次，之后只读
type defaultRepairEngine struct {
	chains []*CorruptionChain
	byName map[string]*CorruptionChain
}

// NewRepairEngine 创建乱码修复引擎（使用内置参考语料）
func NewRepairEngine() RepairEngine {
	return NewRepairEngineWithCorpus(defaultReferenceCorpus())
}

// NewRepairEngineWithCorpus 创建使用自定义参考语料的乱码修复引擎
func NewRepairEngineWithCorpus(corpus []string) RepairEngine {
	chains := GenerateChains(corpus)
	byName := make(map[string]*CorruptionChain, len(chains))
	for _, chain := range chains {
		byName[chain.Name()] = chain
	}
	return &defaultRepairEngine{
		chains: chains,
		byName: byName,
	}
}

// Repair 修复乱码文本
//
// 自动模式下先声明的链并不一定正确：一条链可能只是碰巧改动了
// 另一条链的乱码。因此精确还原的结果优先于部分修复，部分修复
// 只有在不会被任何链继续改动时才采用，保证修复结果是不动点
func (e *defaultRepairEngine) Repair(text, chainName string) RepairResult {
	if chainName != "" {
		chain, ok := e.byName[chainName]
		if !ok {
			return unresolvedResult(text)
		}
		return e.applyChain(text, chain)
	}

	var fallback *RepairResult
	for _, chain := range e.chains {
		result := e.applyChain(text, chain)
		switch result.Confidence {
		case ConfidenceExact:
			return result
		case ConfidencePartial:
			if fallback == nil && e.stable(result.Repaired) {
				partial := result
				fallback = &partial
			}
		}
	}

	if fallback != nil {
		return *fallback
	}
	return unresolvedResult(text)
}

// stable 判断文本是否为全部转换链的不动点
func (e *defaultRepairEngine) stable(text string) bool {
	for _, chain := range e.chains {
		if chain.ApplyInverse(text) != text {
			return false
		}
	}
	return true
}

// ChainNames 返回全部转换链名称
func (e *defaultRepairEngine) ChainNames() []string {
	names := make([]string, 0, len(e.chains))
	for _, chain := range e.chains {
		names = append(names, chain.Name())
	}
	return names
}

// applyChain 应用单个转换链的逆向表并评估置信度
//
// 修复结果经正向转换能完整还原输入时为exact；
// 文本有变化但无法还原时为partial；没有变化时为unresolved
func (e *defaultRepairEngine) applyChain(text string, chain *CorruptionChain) RepairResult {
	repaired := chain.ApplyInverse(text)
	if repaired == text {
		return unresolvedResult(text)
	}

	confidence := ConfidencePartial
	if roundTrip, err := chain.Forward(repaired); err == nil && roundTrip == text {
		confidence = ConfidenceExact
	}

	return RepairResult{
		Original:     text,
		Repaired:     repaired,
		MatchedChain: chain.Name(),
		Confidence:   confidence,
	}
}

// unresolvedResult 构造未修复结果
func unresolvedResult(text string) RepairResult {
	return RepairResult{
		Original:   text,
		Repaired:   text,
		Confidence: ConfidenceUnresolved,
	}
}
