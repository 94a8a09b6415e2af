package domain

// NoCaseLawContext replaces the case law section when nothing was retrieved.
const NoCaseLawContext = "No specific case law found in database. Answering based on general knowledge."

// DefaultAnalysisPrompt is the built-in risk assessment template.
// The first %s receives the case law context, the second the user's idea.
const DefaultAnalysisPrompt = `You are an expert Legal AI Assistant for Indian Copyright Law.

Relevant Case Law Context:
%s

User Idea:
%s

Task:
Analyze the risk of copyright infringement.
1. Assess the risk (High/Medium/Low).
2. Explain WHY based on the provided case law context (cite them).
3. Suggest specific modifications (Loopholes/Transformativeness) to reduce risk.`
