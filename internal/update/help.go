package update

const helpMarkdown = `# Keys

| Key | Action |
| --- | --- |
| 1 / 2 / 3 | habits, stats, settings view |
| j / k | move cursor |
| space / enter | toggle habit done |
| a | add a habit |
| x | remove selected habit |
| / | command palette |
| ? | toggle this help |
| q | quit |

# Palette commands

- ` + "`/add <name> <HH:MM> [daily|every_2_days|weekly|monthly]`" + `
- ` + "`/done <id|name>`" + ` and ` + "`/undo <id|name>`" + `
- ` + "`/remove <id|name>`" + `
- ` + "`/show habits|stats|settings`" + `
`
