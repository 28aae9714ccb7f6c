package core

// ABI covers the ownership and loupe views of the diamond core.
const ABI = `[
	{"type":"function","name":"owner","stateMutability":"view","inputs":[],
	 "outputs":[{"name":"owner_","type":"address"}]},
	{"type":"function","name":"facetAddresses","stateMutability":"view","inputs":[],
	 "outputs":[{"name":"facetAddresses_","type":"address[]"}]},
	{"type":"function","name":"facetFunctionSelectors","stateMutability":"view",
	 "inputs":[{"name":"_facet","type":"address"}],
	 "outputs":[{"name":"facetFunctionSelectors_","type":"bytes4[]"}]}
]`
