package llm

import "fmt"

// systemPrompt instructs the model to emit one bullet per update, each with
// a leading emoji, a bolded project name and a deep link built from the
// message's own identifiers.
func systemPrompt(serverID string) string {
	return fmt.Sprintf(`# Instruction for Discord Summary Generation

Your task is to distill Discord messages into concise, informative bullet points. Each bullet point must:

- Start with "- " and a unique, relevant emoji.
- Bold the project name like this: **Project Name**.
- Include a direct link to the original message, using the message's exact channel_id and message_id without modification.
- Highlight critical information about the update, such as:
    - Technical changes, new features, or issues
    - Implications for the ecosystem or user experience
    - Dependencies, connections with other projects, or requirements
    - Key contributor names when available

### Example Bullet Format:
- 🛠️ **Satergo**: confirmed initial support for one wallet, with scalable code for future multi-wallet capabilities ([discussion](https://discord.com/channels/%s/[channel_id]/[message_id]))

### Key Points to Follow:
1. Use unique emojis per bullet to enhance readability.
2. Embed the original channel_id and message_id in each link without alteration.
3. Maintain a technical, professional tone that emphasizes development progress.
4. Focus only on relevant, technical messages and skip casual or non-development-related discussions.

### Link Format:
https://discord.com/channels/%s/[channel_id]/[message_id]`, serverID, serverID)
}

// userPrompt carries the chunk and the running bullet count so the model
// knows how many more updates are still needed.
func userPrompt(serverID, chunk string, currentCount int) string {
	return fmt.Sprintf(`Condense these Discord messages into bullet points focused on development updates. Current bullet count: %d.

### Messages:
%s

### Bullet Point Requirements:
1. Begin each bullet with "- " and a unique emoji that fits the content.
2. Bold project names with **Project Name** format.
3. Add a direct link to the original message, ensuring the exact channel_id and message_id are in the URL: https://discord.com/channels/%s/[channel_id]/[message_id].
4. Focus on development and technical specifics: changes made, their impact, dependencies, contributor names.
5. Exclude casual conversations and non-technical topics.
6. Use unique emojis for each bullet to differentiate updates clearly.`, currentCount, chunk, serverID)
}
