package dispatch

// HostOpcode enumerates the opcodes a plugin sends to its host.
type HostOpcode uint8

const (
	HostNull HostOpcode = iota
	HostNeedsIdle
	HostSetVolume
	HostSetDryWet
	HostSetBalanceLeft
	HostSetBalanceRight
	HostSetPanning
	HostGetParameterMidiCC
	HostSetParameterMidiCC
	HostUpdateParameter
	HostUpdateMidiProgram
	HostReloadParameters
	HostReloadMidiPrograms
	HostReloadAll
	HostUIUnavailable

	hostOpcodeCount
)

var hostOpcodeNames = [hostOpcodeCount]string{
	HostNull:               "",
	HostNeedsIdle:          "needsIdle",
	HostSetVolume:          "setVolume",
	HostSetDryWet:          "setDryWet",
	HostSetBalanceLeft:     "setBalanceLeft",
	HostSetBalanceRight:    "setBalanceRight",
	HostSetPanning:         "setPanning",
	HostGetParameterMidiCC: "getParameterMidiCC",
	HostSetParameterMidiCC: "setParameterMidiCC",
	HostUpdateParameter:    "updateParameter",
	HostUpdateMidiProgram:  "updateMidiProgram",
	HostReloadParameters:   "reloadParameters",
	HostReloadMidiPrograms: "reloadMidiPrograms",
	HostReloadAll:          "reloadAll",
	HostUIUnavailable:      "uiUnavailable",
}

func (o HostOpcode) String() string {
	if o >= hostOpcodeCount {
		return ""
	}
	return hostOpcodeNames[o]
}

// HostOpcodes lists every defined host opcode.
func HostOpcodes() []HostOpcode {
	ops := make([]HostOpcode, 0, hostOpcodeCount-1)
	for o := HostNeedsIdle; o < hostOpcodeCount; o++ {
		ops = append(ops, o)
	}
	return ops
}

// PluginOpcode enumerates the opcodes a host sends to a plugin.
type PluginOpcode uint8

const (
	PluginNull PluginOpcode = iota
	PluginMsgReceived
	PluginBufferSizeChanged
	PluginSampleRateChanged
	PluginOfflineChanged
	PluginUITitleChanged

	pluginOpcodeCount
)

var pluginOpcodeNames = [pluginOpcodeCount]string{
	PluginNull:              "",
	PluginMsgReceived:       "msgReceived",
	PluginBufferSizeChanged: "bufferSizeChanged",
	PluginSampleRateChanged: "sampleRateChanged",
	PluginOfflineChanged:    "offlineChanged",
	PluginUITitleChanged:    "uiTitleChanged",
}

func (o PluginOpcode) String() string {
	if o >= pluginOpcodeCount {
		return ""
	}
	return pluginOpcodeNames[o]
}

// PluginOpcodes lists every defined plugin opcode.
func PluginOpcodes() []PluginOpcode {
	ops := make([]PluginOpcode, 0, pluginOpcodeCount-1)
	for o := PluginMsgReceived; o < pluginOpcodeCount; o++ {
		ops = append(ops, o)
	}
	return ops
}
