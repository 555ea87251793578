package flow

// Category is the functional class of a component. It is assigned when the
// flow document is parsed and never changes afterwards; the instantiation
// engine selects its construction protocol from it.
type Category string

const (
	CategoryAgent          Category = "agents"
	CategoryPrompt         Category = "prompts"
	CategoryTool           Category = "tools"
	CategoryToolkit        Category = "toolkits"
	CategoryEmbedding      Category = "embeddings"
	CategoryVectorStore    Category = "vectorstores"
	CategoryDocumentLoader Category = "documentloaders"
	CategoryTextSplitter   Category = "textsplitters"
	CategoryUtility        Category = "utilities"
	CategoryChain          Category = "chains"
	CategoryLLM            Category = "llms"
	CategoryMemory         Category = "memories"
	CategoryOther          Category = "other"
)
