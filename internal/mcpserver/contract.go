package mcpserver

// DoneFormatContract describes the Done journal dialect that LLM consumers
// should follow when writing entries the aggregator can parse.
const DoneFormatContract = `# Donefold Journal Format Contract

The Done journal is a single Markdown file of weekly sections.

## Structure

` + "```" + `markdown
### Week 07

#### 12/02 Monday

- Fix flaky integration test
    - root cause was a shared port
        - picked free ports per test instead
- Work
- Review onboarding doc

#### 13/02 Tuesday

- Fix flaky integration test
` + "```" + `

## Rules

1. **Week headers** are ` + "`" + `### Week NN` + "`" + ` with a two-digit, zero-padded week number.
   Everything until the next week header belongs to that week.
2. **Day headers** are ` + "`" + `#### D/M Weekday` + "`" + ` (day/month plus the full English
   weekday name, Monday through Sunday).
3. **Actions** are lines at indentation zero. The same action name appearing on
   several days is one action recorded for each of those weekdays.
4. **Notes** are indented lines below an action. Indentation is significant:
   deeper nesting is preserved relative to the action.
5. **Categories** are lines whose text matches a configured category name
   (e.g. "Work"); they group the entries that follow.
6. Blank lines are ignored; a leading ` + "`" + `- ` + "`" + ` on any line is stripped before
   interpretation.
7. Aggregation matches actions against report bullet lines of the form
   ` + "`" + `- **<Action Name>** ...` + "`" + ` by exact name equality, so spelling matters.
`
