package mcpserver

// UsageGuide explains how tool results are shaped and how they may be
// presented to people.
const UsageGuide = `# supp.ai Usage Guide

supp.ai indexes interactions between supplements and drugs that were
extracted automatically from the scientific literature.

## Identifiers

- Agents are identified by UMLS concept identifiers (CUI), e.g. ` + "`C0330205`" + `.
- ` + "`ent_type`" + ` is one of ` + "`supplement`" + `, ` + "`drug`" + ` or ` + "`other`" + `.
- Interactions are identified by both CUIs joined with a dash, e.g.
  ` + "`C0043031-C0330205`" + `.
- Web pages live at ` + "`/a/{slug}/{cui}`" + ` and ` + "`/i/{slug}/{interaction_id}`" + `.

## Paging

- ` + "`search_agents`" + ` and ` + "`list_interactions`" + ` take a zero-indexed ` + "`page`" + `.
- ` + "`list_interactions`" + ` reports ` + "`total`" + ` and ` + "`interactions_per_page`" + `.

## Evidence

Each evidence entry pairs a paper with sentences. A sentence is a list of
spans; spans carrying a ` + "`cui`" + ` mention that agent. Papers flagged with
` + "`retraction`" + ` have been retracted and must be presented as such.

## Disclaimer

Results are machine-extracted and may be wrong or incomplete. They are not
medical advice. Always tell the reader to consult a doctor or pharmacist
before combining supplements and medications.
`
