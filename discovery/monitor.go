package discovery

import "github.com/poiesic/peerscope/core"

// DiscoveryMonitor provides hooks to observe a discovery run.
// Implement this interface to track intermediate phases and their results.
type DiscoveryMonitor interface {
	Start(request *core.DiscoveryRequest)
	AfterVectorPhase(matches []*core.CompanyMatch)
	AfterToolPhase(bySource map[core.Source][]*core.CompanyMatch)
	AfterFallbackPhase(matches []*core.CompanyMatch)
	AfterScoring(matches []*core.CompanyMatch)
	Finish(result *core.DiscoveryResult)
}

// noopMonitor is a no-op implementation of DiscoveryMonitor
type noopMonitor struct{}

var _ DiscoveryMonitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ *core.DiscoveryRequest)                            {}
func (n *noopMonitor) AfterVectorPhase(_ []*core.CompanyMatch)                   {}
func (n *noopMonitor) AfterToolPhase(_ map[core.Source][]*core.CompanyMatch)     {}
func (n *noopMonitor) AfterFallbackPhase(_ []*core.CompanyMatch)                 {}
func (n *noopMonitor) AfterScoring(_ []*core.CompanyMatch)                       {}
func (n *noopMonitor) Finish(_ *core.DiscoveryResult)                            {}
